package models

import "time"

// Media is a stored upload descriptor returned by the media service.
// Rows are committed when the upload succeeds and are never rolled back by
// the post-creation transaction; a mystery only references them through the
// mystery_media join table.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"not null" json:"url"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name; "media" is already plural.
func (Media) TableName() string {
	return "media"
}
