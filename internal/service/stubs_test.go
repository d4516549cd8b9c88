package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"identify/internal/models"

	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByNicknameFn      func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFieldsFn       func(context.Context, uint, map[string]any) error
	updateLastActivityFn func(context.Context, uint, time.Time) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getByNicknameFn(ctx, nickname)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *userRepoStub) UpdateLastActivity(ctx context.Context, id uint, at time.Time) error {
	return s.updateLastActivityFn(ctx, id, at)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByNicknameFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:             func(_ context.Context, _ *models.User) error { return nil },
		updateFieldsFn:       func(_ context.Context, _ uint, _ map[string]any) error { return nil },
		updateLastActivityFn: func(_ context.Context, _ uint, _ time.Time) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post, *models.Mystery, []uint, []int64) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	listFn            func(context.Context, int, int) ([]models.Post, error)
	listByUserFn      func(context.Context, uint) ([]models.Post, error)
	listByLabelFn     func(context.Context, int64) ([]models.Post, error)
	getRecentByUserFn func(context.Context, uint, int) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, mystery *models.Mystery, mediaIDs []uint, labelIDs []int64) error {
	return s.createFn(ctx, post, mystery, mediaIDs, labelIDs)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, page, size int) ([]models.Post, error) {
	return s.listFn(ctx, page, size)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) ListByLabel(ctx context.Context, wikidataID int64) ([]models.Post, error) {
	return s.listByLabelFn(ctx, wikidataID)
}
func (s *postRepoStub) GetRecentByUser(ctx context.Context, userID uint, limit int) ([]models.Post, error) {
	return s.getRecentByUserFn(ctx, userID, limit)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post, _ *models.Mystery, _ []uint, _ []int64) error {
			return nil
		},
		getByIDFn:         func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:            func(_ context.Context, _, _ int) ([]models.Post, error) { return nil, nil },
		listByUserFn:      func(_ context.Context, _ uint) ([]models.Post, error) { return nil, nil },
		listByLabelFn:     func(_ context.Context, _ int64) ([]models.Post, error) { return nil, nil },
		getRecentByUserFn: func(_ context.Context, _ uint, _ int) ([]models.Post, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn          func(context.Context, *models.Comment) error
	getByIDFn         func(context.Context, uint) (*models.Comment, error)
	updateVotesFn     func(context.Context, uint, func(*models.Comment) error) (*models.Comment, error)
	listByPostFn      func(context.Context, uint) ([]models.Comment, error)
	getRecentByUserFn func(context.Context, uint, int) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) UpdateVotes(ctx context.Context, id uint, mutate func(*models.Comment) error) (*models.Comment, error) {
	return s.updateVotesFn(ctx, id, mutate)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) GetRecentByUser(ctx context.Context, userID uint, limit int) ([]models.Comment, error) {
	return s.getRecentByUserFn(ctx, userID, limit)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateVotesFn: func(_ context.Context, id uint, mutate func(*models.Comment) error) (*models.Comment, error) {
			comment := &models.Comment{ID: id}
			if err := mutate(comment); err != nil {
				return nil, err
			}
			return comment, nil
		},
		listByPostFn:      func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		getRecentByUserFn: func(_ context.Context, _ uint, _ int) ([]models.Comment, error) { return nil, nil },
	}
}

// labelRepoStub is a stub for repository.LabelRepository.
type labelRepoStub struct {
	getOrCreateFn func(context.Context, *models.WikidataLabel) (*models.WikidataLabel, bool, error)
	getByIDFn     func(context.Context, int64) (*models.WikidataLabel, error)
}

func (s *labelRepoStub) GetOrCreate(ctx context.Context, label *models.WikidataLabel) (*models.WikidataLabel, bool, error) {
	return s.getOrCreateFn(ctx, label)
}
func (s *labelRepoStub) GetByID(ctx context.Context, wikidataID int64) (*models.WikidataLabel, error) {
	return s.getByIDFn(ctx, wikidataID)
}

func noopLabelRepo() *labelRepoStub {
	return &labelRepoStub{
		getOrCreateFn: func(_ context.Context, label *models.WikidataLabel) (*models.WikidataLabel, bool, error) {
			return label, true, nil
		},
		getByIDFn: func(_ context.Context, _ int64) (*models.WikidataLabel, error) { return nil, nil },
	}
}

// mediaRepoStub is a stub for repository.MediaRepository.
type mediaRepoStub struct {
	createFn   func(context.Context, *models.Media) error
	getByIDsFn func(context.Context, []uint) ([]models.Media, error)
}

func (s *mediaRepoStub) Create(ctx context.Context, media *models.Media) error {
	return s.createFn(ctx, media)
}
func (s *mediaRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Media, error) {
	return s.getByIDsFn(ctx, ids)
}

func noopMediaRepo() *mediaRepoStub {
	nextID := uint(0)
	return &mediaRepoStub{
		createFn: func(_ context.Context, media *models.Media) error {
			nextID++
			media.ID = nextID
			return nil
		},
		getByIDsFn: func(_ context.Context, _ []uint) ([]models.Media, error) { return nil, nil },
	}
}

func stubToken(userID uint, _ string) (string, error) {
	return "token", nil
}

// pngBytes returns a tiny valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(4, 4)))
	return buf.Bytes()
}

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
