// Package dto defines the request and response payload shapes of the API.
package dto

import "time"

// MiniProfile is the condensed user projection used in list contexts.
type MiniProfile struct {
	ID             uint   `json:"id"`
	Nickname       string `json:"nickname"`
	ProfilePicture string `json:"profile_picture"`
	TotalPoints    int    `json:"total_points"`
}

// Profile is the full profile view including the recency-bounded activity lists.
type Profile struct {
	ID             uint      `json:"id"`
	Nickname       string    `json:"nickname"`
	Email          *string   `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `json:"bio"`
	TotalPoints    int       `json:"total_points"`
	AccountCreated time.Time `json:"account_created"`
	LastActivity   time.Time `json:"last_activity"`

	RecentPosts    []MiniPostDTO `json:"recent_posts"`
	RecentComments []CommentDTO  `json:"recent_comments"`
}

// MediaDTO describes one stored upload.
type MediaDTO struct {
	ID       uint   `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// LabelDTO is a semantic label attached to a mystery.
type LabelDTO struct {
	WikidataID    int64    `json:"wikidata_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RelatedLabels []string `json:"related_labels"`
}

// MysteryDTO carries the physical attributes, media and labels of a post.
type MysteryDTO struct {
	ID        uint       `json:"id"`
	Weight    float64    `json:"weight"`
	Colors    []string   `json:"colors"`
	Shapes    []string   `json:"shapes"`
	Materials []string   `json:"materials"`
	SizeX     float64    `json:"size_x"`
	SizeY     float64    `json:"size_y"`
	SizeZ     float64    `json:"size_z"`
	Medias    []MediaDTO `json:"medias"`
	Labels    []LabelDTO `json:"labels"`
}

// PostDTO is the full post detail view.
type PostDTO struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Author      MiniProfile `json:"author"`
	Mystery     *MysteryDTO `json:"mystery"`
}

// MiniPostDTO is the condensed post projection for listings and profiles.
type MiniPostDTO struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Author    MiniProfile `json:"author"`
	Thumbnail string      `json:"thumbnail"`
}

// CommentDTO is a comment with vote tallies and the author's condensed profile.
type CommentDTO struct {
	ID               uint        `json:"id"`
	ParentID         *uint       `json:"parent_id"`
	PostID           uint        `json:"post_id"`
	Content          string      `json:"content"`
	Type             string      `json:"type"`
	CreatedAt        time.Time   `json:"created_at"`
	Author           MiniProfile `json:"author"`
	Upvotes          int         `json:"upvotes"`
	UpvotedUserIDs   []uint      `json:"upvoted_user_ids"`
	Downvotes        int         `json:"downvotes"`
	DownvotedUserIDs []uint      `json:"downvoted_user_ids"`
}

// AuthResponse is returned by register and login.
// Success carries token/id/nickname; failure carries only a message.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	ID       uint   `json:"id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Message  string `json:"message,omitempty"`
}
