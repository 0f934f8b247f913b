package models

import (
	"gorm.io/gorm"
)

// NotificationType categorizes what produced a notification
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationMatch         NotificationType = "match"
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationEvent         NotificationType = "event"
	NotificationMessage       NotificationType = "message"
)

// Notification is the persisted counterpart of a realtime push, so users
// who were offline still see what happened when they next fetch.
type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey"`
	UserID  string           `json:"userId" gorm:"column:user_id;index;not null"`
	Type    NotificationType `json:"type" gorm:"not null"`
	Message string           `json:"message" gorm:"not null"`
	Read    bool             `json:"read" gorm:"column:is_read;default:false"`
	gorm.Model
}

// TableName specifies the table name for Notification Model
func (Notification) TableName() string {
	return "notifications"
}
