package models

import (
	"gorm.io/gorm"
)

// FriendRequestStatus represents the state of a friend request
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest is a pending/resolved request from sender to receiver.
type FriendRequest struct {
	ID         string              `json:"id" gorm:"primaryKey"`
	SenderID   string              `json:"senderId" gorm:"column:sender_id;index;not null"`
	ReceiverID string              `json:"receiverId" gorm:"column:receiver_id;index;not null"`
	Status     FriendRequestStatus `json:"status" gorm:"not null;default:'pending'"`
	gorm.Model
}

// TableName specifies the table name for FriendRequest Model
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is created when a friend request is accepted.
type Friendship struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserAID string `json:"userAId" gorm:"column:user_a_id;index;not null"`
	UserBID string `json:"userBId" gorm:"column:user_b_id;index;not null"`
	gorm.Model
}

// TableName specifies the table name for Friendship Model
func (Friendship) TableName() string {
	return "friendships"
}
