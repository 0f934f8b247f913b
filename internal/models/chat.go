package models

import (
	"gorm.io/gorm"
)

// Chat is a direct conversation between two users.
type Chat struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserAID string `json:"userAId" gorm:"column:user_a_id;index;not null"`
	UserBID string `json:"userBId" gorm:"column:user_b_id;index;not null"`
	gorm.Model
}

// TableName specifies the table name for Chat Model
func (Chat) TableName() string {
	return "chats"
}

// Message is one chat message.
type Message struct {
	ID       string `json:"id" gorm:"primaryKey"`
	ChatID   string `json:"chatId" gorm:"column:chat_id;index;not null"`
	SenderID string `json:"senderId" gorm:"column:sender_id;not null"`
	Content  string `json:"content" gorm:"not null"`
	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}
