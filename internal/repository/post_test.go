package repository

import (
	"context"
	"fmt"
	"testing"

	"identify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMedia(t *testing.T, db *gorm.DB, userID uint, url string) *models.Media {
	t.Helper()
	media := &models.Media{UserID: userID, URL: url, MimeType: "image/jpeg"}
	require.NoError(t, db.Create(media).Error)
	return media
}

func createTestPost(t *testing.T, repo PostRepository, db *gorm.DB, userID uint, title string, labelIDs []int64) *models.Post {
	t.Helper()
	media := seedMedia(t, db, userID, "/media/"+title+".jpg")
	post := &models.Post{
		UserID: userID,
		Title:  title,
		Status: models.PostStatusActive,
	}
	mystery := &models.Mystery{
		Weight: 1.5,
		Colors: models.StringList{"red"},
	}
	require.NoError(t, repo.Create(context.Background(), post, mystery, []uint{media.ID}, labelIDs))
	return post
}

func TestPostRepositoryCreateWritesAllRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	label := &models.WikidataLabel{WikidataID: 1203, Title: "candlestick"}
	require.NoError(t, db.Create(label).Error)

	post := createTestPost(t, repo, db, user.ID, "brass-thing", []int64{1203})
	require.NotZero(t, post.ID)
	require.NotNil(t, post.Mystery)
	assert.Equal(t, post.ID, post.Mystery.PostID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "brass-thing", got.Title)
	assert.Equal(t, "ada", got.User.Nickname)
	require.NotNil(t, got.Mystery)
	require.Len(t, got.Mystery.Medias, 1)
	require.Len(t, got.Mystery.Labels, 1)
	assert.Equal(t, int64(1203), got.Mystery.Labels[0].WikidataID)
}

func TestPostRepositoryCreateRollsBackTogether(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	media := seedMedia(t, db, user.ID, "/media/a.jpg")

	post := &models.Post{UserID: user.ID, Title: "doomed", Status: models.PostStatusActive}
	mystery := &models.Mystery{}

	// A duplicate media reference violates the join table primary key on
	// the last insert; the post and mystery rows written earlier in the
	// transaction must go too.
	err := repo.Create(ctx, post, mystery, []uint{media.ID, media.ID}, nil)
	require.Error(t, err)

	var postCount, mysteryCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Mystery{}).Count(&mysteryCount).Error)
	assert.Zero(t, postCount)
	assert.Zero(t, mysteryCount)

	// The media row was committed before the transaction and survives.
	var mediaCount int64
	require.NoError(t, db.Model(&models.Media{}).Count(&mediaCount).Error)
	assert.EqualValues(t, 1, mediaCount)
}

func TestPostRepositoryListPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	for i := 0; i < 7; i++ {
		createTestPost(t, repo, db, user.ID, fmt.Sprintf("post-%d", i), nil)
	}

	page0, err := repo.List(ctx, 0, 5)
	require.NoError(t, err)
	require.Len(t, page0, 5)
	assert.Equal(t, "post-0", page0[0].Title)

	page1, err := repo.List(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "post-5", page1[0].Title)

	empty, err := repo.List(ctx, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepositoryListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ada := seedUser(t, db, "ada")
	grace := seedUser(t, db, "grace")
	createTestPost(t, repo, db, ada.ID, "adas-post", nil)
	createTestPost(t, repo, db, grace.ID, "graces-post", nil)

	posts, err := repo.ListByUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "adas-post", posts[0].Title)
}

func TestPostRepositoryListByLabel(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	require.NoError(t, db.Create(&models.WikidataLabel{WikidataID: 7, Title: "tool"}).Error)
	require.NoError(t, db.Create(&models.WikidataLabel{WikidataID: 8, Title: "toy"}).Error)

	tagged := createTestPost(t, repo, db, user.ID, "tagged", []int64{7})
	createTestPost(t, repo, db, user.ID, "untagged", nil)

	posts, err := repo.ListByLabel(ctx, 7)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, tagged.ID, posts[0].ID)

	none, err := repo.ListByLabel(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostRepositoryGetRecentByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ada")
	for i := 0; i < 7; i++ {
		createTestPost(t, repo, db, user.ID, fmt.Sprintf("post-%d", i), nil)
	}

	recent, err := repo.GetRecentByUser(ctx, user.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	// Newest first.
	assert.Equal(t, "post-6", recent[0].Title)
	assert.Equal(t, "post-2", recent[4].Title)
}

func TestPostRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
