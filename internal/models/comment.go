package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentType categorizes a comment on a post.
type CommentType string

const (
	CommentTypeQuestion   CommentType = "question"
	CommentTypeSuggestion CommentType = "suggestion"
	CommentTypePlain      CommentType = "comment"
)

// Comment is a threaded comment on a post. Vote tallies are denormalized
// next to the voter-id sets; the sets are authoritative and the counters
// are kept in sync by the comment service.
type Comment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ParentID         *uint          `gorm:"index" json:"parent_id,omitempty"`
	PostID           uint           `gorm:"not null;index" json:"post_id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	Type             CommentType    `gorm:"type:varchar(16);not null;default:comment" json:"type"`
	Upvotes          int            `gorm:"default:0" json:"upvotes"`
	Downvotes        int            `gorm:"default:0" json:"downvotes"`
	UpvotedUserIDs   UintList       `gorm:"type:text" json:"upvoted_user_ids"`
	DownvotedUserIDs UintList       `gorm:"type:text" json:"downvoted_user_ids"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
