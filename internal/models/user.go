package models

import (
	"gorm.io/gorm"
)

// User represents a registered account and its public profile.
type User struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"unique;not null"`
	Password    string  `json:"-" gorm:"not null"`
	DisplayName string  `json:"displayName" gorm:"column:display_name"`
	Bio         string  `json:"bio"`
	City        string  `json:"city"`
	ImageURL    string  `json:"imageUrl" gorm:"column:image_url"`
	Hobbies     []Hobby `json:"hobbies" gorm:"many2many:user_hobbies;"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
