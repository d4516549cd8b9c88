package repository

import (
	"context"
	"errors"

	"identify/internal/cache"
	"identify/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and mysteries.
type PostRepository interface {
	// Create writes the post, its mystery, and the media/label references
	// in one transaction, in that order.
	Create(ctx context.Context, post *models.Post, mystery *models.Mystery, mediaIDs []uint, labelIDs []int64) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, page, size int) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	ListByLabel(ctx context.Context, wikidataID int64) ([]models.Post, error)
	GetRecentByUser(ctx context.Context, userID uint, limit int) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, mystery *models.Mystery, mediaIDs []uint, labelIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post.Mystery = nil
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		mystery.PostID = post.ID
		// Associations are written as explicit reference rows below, so the
		// loaded Media/Label slices must not be upserted here.
		if err := tx.Omit("Medias", "Labels").Create(mystery).Error; err != nil {
			return err
		}

		for _, mediaID := range mediaIDs {
			if err := tx.Exec(
				"INSERT INTO mystery_media (mystery_id, media_id) VALUES (?, ?)",
				mystery.ID, mediaID,
			).Error; err != nil {
				return err
			}
		}

		for _, labelID := range labelIDs {
			if err := tx.Exec(
				"INSERT INTO mystery_labels (mystery_id, wikidata_label_id) VALUES (?, ?)",
				mystery.ID, labelID,
			).Error; err != nil {
				return err
			}
		}

		post.Mystery = mystery
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Mystery").
		Preload("Mystery.Medias").
		Preload("Mystery.Labels").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns one zero-based page of posts in insertion order.
func (r *postRepository) List(ctx context.Context, page, size int) ([]models.Post, error) {
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Mystery").
		Preload("Mystery.Medias").
		Order("id ASC").
		Limit(size).
		Offset(page * size).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Mystery").
		Preload("Mystery.Medias").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByLabel(ctx context.Context, wikidataID int64) ([]models.Post, error) {
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Mystery").
		Preload("Mystery.Medias").
		Joins("JOIN mysteries ON mysteries.post_id = posts.id").
		Joins("JOIN mystery_labels ml ON ml.mystery_id = mysteries.id").
		Where("ml.wikidata_label_id = ?", wikidataID).
		Order("posts.id ASC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetRecentByUser(ctx context.Context, userID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("Mystery").
		Preload("Mystery.Medias").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
