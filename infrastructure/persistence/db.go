package persistence

import (
	"context"

	"github.com/AayushMore1708/api-hub/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(ctx context.Context, db database.Database) error {
	return db.Session(ctx).AutoMigrate(
		&DocumentModel{},
	)
}
