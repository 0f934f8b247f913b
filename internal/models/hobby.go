package models

import (
	"gorm.io/gorm"
)

// Hobby is a selectable interest; users pick any number of them.
type Hobby struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;not null"`
	gorm.Model
}

// TableName specifies the table name for Hobby Model
func (Hobby) TableName() string {
	return "hobbies"
}
