// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"identify/internal/models"
	"identify/internal/taxonomy"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a plain password marker instead of hashing, for
	// fast local reseeds. Never use outside development.
	SkipBcrypt bool
	MaxDays    int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// spreadCreatedAt returns a timestamp scattered over the configured window
// so feeds and profiles look lived-in.
func (f *Factory) spreadCreatedAt() time.Time {
	daysBack := f.rand.Intn(f.opts.MaxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func (f *Factory) pick(values []string, max int) []string {
	n := 1 + f.rand.Intn(max)
	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(out) < n {
		v := values[f.rand.Intn(len(values))]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Nickname:     gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		Bio:          gofakeit.Sentence(10),
		MailVisible:  f.rand.Intn(4) == 0,
		TotalPoints:  gofakeit.Number(0, 500),
		LastActivity: f.spreadCreatedAt(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateLabel persists a WikidataLabel, reusing the row when the ID exists.
func (f *Factory) CreateLabel(wikidataID int64, title string) (*models.WikidataLabel, error) {
	label := &models.WikidataLabel{
		WikidataID:  wikidataID,
		Title:       title,
		Description: gofakeit.Sentence(8),
	}
	if err := f.db.FirstOrCreate(label, "wikidata_id = ?", wikidataID).Error; err != nil {
		return nil, err
	}
	return label, nil
}

// CreatePost persists a post with its mystery, one media reference and the
// given labels, mirroring the shape the API produces.
func (f *Factory) CreatePost(user *models.User, labels []models.WikidataLabel, overrides ...func(*models.Post)) (*models.Post, error) {
	vocab := taxonomy.Get()

	media := &models.Media{
		UserID:    user.ID,
		URL:       fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		MimeType:  "image/jpeg",
		SizeBytes: int64(gofakeit.Number(20_000, 400_000)),
	}
	if err := f.db.Create(media).Error; err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      user.ID,
		Title:       fmt.Sprintf("What is this %s %s thing?", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete()),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Status:      models.PostStatusActive,
		CreatedAt:   f.spreadCreatedAt(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}

	mystery := &models.Mystery{
		PostID:    post.ID,
		Weight:    gofakeit.Float64Range(0.05, 25),
		Colors:    f.pick(vocab.Colors, 2),
		Shapes:    f.pick(vocab.Shapes, 2),
		Materials: f.pick(vocab.Materials, 2),
		SizeX:     gofakeit.Float64Range(1, 120),
		SizeY:     gofakeit.Float64Range(1, 120),
		SizeZ:     gofakeit.Float64Range(1, 120),
		Medias:    []models.Media{*media},
		Labels:    labels,
	}
	if err := f.db.Create(mystery).Error; err != nil {
		return nil, err
	}
	post.Mystery = mystery
	return post, nil
}

// CreateComment persists a comment; parent may be nil.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	types := []models.CommentType{
		models.CommentTypeQuestion, models.CommentTypeSuggestion, models.CommentTypePlain,
	}
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    user.ID,
		Content:   gofakeit.Sentence(12),
		Type:      types[f.rand.Intn(len(types))],
		CreatedAt: f.spreadCreatedAt(),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CastVotes records random up/down votes by the given users, keeping the
// voter sets mutually exclusive and the counters in sync.
func (f *Factory) CastVotes(comment *models.Comment, voters []*models.User) error {
	for _, voter := range voters {
		if f.rand.Intn(3) == 0 {
			continue
		}
		if f.rand.Intn(4) == 0 {
			comment.DownvotedUserIDs = append(comment.DownvotedUserIDs, voter.ID)
		} else {
			comment.UpvotedUserIDs = append(comment.UpvotedUserIDs, voter.ID)
		}
	}
	comment.Upvotes = len(comment.UpvotedUserIDs)
	comment.Downvotes = len(comment.DownvotedUserIDs)
	return f.db.Save(comment).Error
}
