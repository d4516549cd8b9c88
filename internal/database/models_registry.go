package database

import "identify/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Mystery{},
		&models.Media{},
		&models.WikidataLabel{},
		&models.Comment{},
	}
}
