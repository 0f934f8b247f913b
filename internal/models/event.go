package models

import (
	"gorm.io/gorm"
)

// JoinRequestStatus represents the state of an event join request
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// Event is a hosted gathering other users can ask to join.
type Event struct {
	ID          string `json:"id" gorm:"primaryKey"`
	HostID      string `json:"hostId" gorm:"column:host_id;index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	City        string `json:"city"`
	StartDate   string `json:"startDate" gorm:"column:start_date"`
	Capacity    int    `json:"capacity" gorm:"default:0"`
	gorm.Model
}

// TableName specifies the table name for Event Model
func (Event) TableName() string {
	return "events"
}

// EventMember links an approved participant (or the host) to an event.
type EventMember struct {
	ID      string `json:"id" gorm:"primaryKey"`
	EventID string `json:"eventId" gorm:"column:event_id;index;not null"`
	UserID  string `json:"userId" gorm:"column:user_id;index;not null"`
	gorm.Model
}

// TableName specifies the table name for EventMember Model
func (EventMember) TableName() string {
	return "event_members"
}

// JoinRequest is a pending/resolved request to participate in an event.
type JoinRequest struct {
	ID      string            `json:"id" gorm:"primaryKey"`
	EventID string            `json:"eventId" gorm:"column:event_id;index;not null"`
	UserID  string            `json:"userId" gorm:"column:user_id;index;not null"`
	Status  JoinRequestStatus `json:"status" gorm:"not null;default:'pending'"`
	gorm.Model
}

// TableName specifies the table name for JoinRequest Model
func (JoinRequest) TableName() string {
	return "join_requests"
}
