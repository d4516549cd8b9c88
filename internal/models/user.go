// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. The bcrypt hash never leaves the
// server; API responses expose users through the mapper package instead of
// serializing this struct directly.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Nickname       string         `gorm:"uniqueIndex;not null" json:"nickname"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	MailVisible    bool           `gorm:"default:false" json:"mail_visible"`
	TotalPoints    int            `gorm:"default:0" json:"total_points"`
	LastActivity   time.Time      `json:"last_activity"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Posts    []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}
