package models

import (
	"gorm.io/gorm"
)

// Swipe records one user's like/pass decision on another user's profile.
// At most one swipe exists per (swiper, target) pair.
type Swipe struct {
	ID       string `json:"id" gorm:"primaryKey"`
	SwiperID string `json:"swiperId" gorm:"column:swiper_id;index;not null"`
	TargetID string `json:"targetId" gorm:"column:target_id;index;not null"`
	Liked    bool   `json:"liked"`
	gorm.Model
}

// TableName specifies the table name for Swipe Model
func (Swipe) TableName() string {
	return "swipes"
}

// Match is created when two users like each other. A chat is opened with it.
type Match struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserAID string `json:"userAId" gorm:"column:user_a_id;index;not null"`
	UserBID string `json:"userBId" gorm:"column:user_b_id;index;not null"`
	ChatID  string `json:"chatId" gorm:"column:chat_id"`
	gorm.Model
}

// TableName specifies the table name for Match Model
func (Match) TableName() string {
	return "matches"
}
