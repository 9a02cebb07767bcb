package storage

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	platformerrors "kokorod/internal/platform/errors"
	"kokorod/internal/platform/storage/migrations"
)

// Store owns the SQLite database holding synthesis usage history.
type Store struct {
	db *gorm.DB
}

// Open creates the database file (and its parent directory) if needed,
// runs migrations and returns a ready store.
func Open(path string) (*Store, error) {
	const op = "storage.Open"

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "create data directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "open database", err)
	}

	// AutoMigrate covers schema drift for released tables, versioned
	// migrations handle everything structural.
	if err := db.AutoMigrate(&UsageRecord{}); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "migrate database", err)
	}

	manager := NewMigrationManager(db)
	manager.AddMigration(&migrations.Migration001Usage{})
	if err := manager.RunMigrations(); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "storage.Close", "resolve sql.DB", err)
	}
	return sqlDB.Close()
}
