package repository

import (
	"context"

	"identify/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines persistence operations for stored uploads.
// Media rows are committed outside the post transaction on purpose: a failed
// post leaves its uploaded files and rows behind rather than risking partial
// deletes.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByIDs(ctx context.Context, ids []uint) ([]models.Media, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mediaRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Media, error) {
	var medias []models.Media
	if len(ids) == 0 {
		return medias, nil
	}
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", ids).Find(&medias).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return medias, nil
}
