package seed

import (
	"fmt"
	"log"

	"identify/internal/models"

	"gorm.io/gorm"
)

// A small catalog of plausible identifications so seeded posts share labels
// and the tag listings have something to join on.
var labelCatalog = []struct {
	WikidataID int64
	Title      string
}{
	{907359, "candlestick"},
	{39546, "tool"},
	{13180, "kitchen utensil"},
	{11422, "toy"},
	{1357761, "paperweight"},
	{188460, "vase"},
	{80228, "bottle opener"},
	{1066288, "doorstop"},
}

// Run populates the database with demo users, posts, comments and votes.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 60
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	f := NewFactory(db, opts)

	labels := make([]models.WikidataLabel, 0, len(labelCatalog))
	for _, entry := range labelCatalog {
		label, err := f.CreateLabel(entry.WikidataID, entry.Title)
		if err != nil {
			return fmt.Errorf("label %d: %w", entry.WikidataID, err)
		}
		labels = append(labels, *label)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rand.Intn(len(users))]
		n := 1 + f.rand.Intn(3)
		postLabels := make([]models.WikidataLabel, 0, n)
		start := f.rand.Intn(len(labels))
		for j := 0; j < n; j++ {
			postLabels = append(postLabels, labels[(start+j)%len(labels)])
		}

		post, err := f.CreatePost(author, postLabels)
		if err != nil {
			return fmt.Errorf("post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	commentCount := 0
	for _, post := range posts {
		n := f.rand.Intn(5)
		var root *models.Comment
		for i := 0; i < n; i++ {
			commenter := users[f.rand.Intn(len(users))]
			parent := root
			if root == nil || f.rand.Intn(2) == 0 {
				parent = nil
			}
			comment, err := f.CreateComment(commenter, post, parent)
			if err != nil {
				return fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			if root == nil {
				root = comment
			}
			if err := f.CastVotes(comment, users[:min(len(users), 8)]); err != nil {
				return fmt.Errorf("votes on comment %d: %w", comment.ID, err)
			}
			commentCount++
		}
	}
	log.Printf("seeded %d comments", commentCount)

	return nil
}

// Clean removes seeded rows in dependency order.
func Clean(db *gorm.DB) error {
	tables := []string{
		"comments", "mystery_labels", "mystery_media", "mysteries",
		"posts", "media", "wikidata_labels", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("cleaning %s: %w", table, err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
