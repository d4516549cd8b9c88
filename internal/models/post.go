// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusSolved   PostStatus = "solved"
	PostStatusArchived PostStatus = "archived"
)

// Post is a user submission asking the community to identify an object.
// Every post owns exactly one Mystery; the pair is written in a single
// transaction by the post repository.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      PostStatus     `gorm:"type:varchar(16);not null;default:active" json:"status"`
	Mystery     *Mystery       `gorm:"foreignKey:PostID" json:"mystery,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Mystery holds the physical attributes of the object a post asks about.
// Media rows are referenced (not owned): they are created by the media
// service before the post transaction and survive its rollback.
type Mystery struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PostID    uint       `gorm:"not null;uniqueIndex" json:"post_id"`
	Weight    float64    `json:"weight"`
	Colors    StringList `gorm:"type:text" json:"colors"`
	Shapes    StringList `gorm:"type:text" json:"shapes"`
	Materials StringList `gorm:"type:text" json:"materials"`
	SizeX     float64    `json:"size_x"`
	SizeY     float64    `json:"size_y"`
	SizeZ     float64    `json:"size_z"`

	Medias []Media         `gorm:"many2many:mystery_media;joinForeignKey:MysteryID;joinReferences:MediaID" json:"medias"`
	Labels []WikidataLabel `gorm:"many2many:mystery_labels;joinForeignKey:MysteryID;joinReferences:WikidataLabelID" json:"labels"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
