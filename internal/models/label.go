package models

import "time"

// WikidataLabel is a semantic tag sourced from an external knowledge base.
// The external identifier is the primary key, so the store itself enforces
// that a label is never duplicated; the repository handles the concurrent
// get-or-create conflict by re-reading on a unique violation.
type WikidataLabel struct {
	WikidataID    int64      `gorm:"primaryKey;autoIncrement:false;column:wikidata_id" json:"wikidata_id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `json:"description"`
	RelatedLabels StringList `gorm:"type:text" json:"related_labels"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName keeps the table name aligned with the join table declared on Mystery.
func (WikidataLabel) TableName() string { return "wikidata_labels" }
