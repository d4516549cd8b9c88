package repository

import (
	"context"
	"errors"

	"identify/internal/models"

	"gorm.io/gorm"
)

// LabelRepository defines persistence operations for semantic labels.
type LabelRepository interface {
	// GetOrCreate returns the stored label for the Wikidata ID, creating it
	// from the given data when missing. The stored row always wins; client
	// data never overwrites an existing label. The returned bool reports
	// whether a new row was created.
	GetOrCreate(ctx context.Context, label *models.WikidataLabel) (*models.WikidataLabel, bool, error)
	GetByID(ctx context.Context, wikidataID int64) (*models.WikidataLabel, error)
}

type labelRepository struct {
	db *gorm.DB
}

// NewLabelRepository returns a new LabelRepository implementation.
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) GetByID(ctx context.Context, wikidataID int64) (*models.WikidataLabel, error) {
	var label models.WikidataLabel
	if err := readDB(r.db).WithContext(ctx).First(&label, "wikidata_id = ?", wikidataID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &label, nil
}

func (r *labelRepository) GetOrCreate(ctx context.Context, label *models.WikidataLabel) (*models.WikidataLabel, bool, error) {
	var existing models.WikidataLabel
	err := r.db.WithContext(ctx).First(&existing, "wikidata_id = ?", label.WikidataID).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Create(label).Error; err != nil {
		if isUniqueConstraintError(err) {
			// A concurrent request created the row between the read and the
			// insert; the committed row wins.
			if rereadErr := r.db.WithContext(ctx).First(&existing, "wikidata_id = ?", label.WikidataID).Error; rereadErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, models.NewInternalError(err)
	}
	return label, true, nil
}
