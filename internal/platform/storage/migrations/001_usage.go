package migrations

import (
	"gorm.io/gorm"
)

// Migration001Usage creates the usage history schema.
type Migration001Usage struct{}

func (m *Migration001Usage) Version() string {
	return "001_usage"
}

func (m *Migration001Usage) Description() string {
	return "Create usage records table"
}

func (m *Migration001Usage) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id VARCHAR(64) NOT NULL UNIQUE,
			surface VARCHAR(16) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			voice VARCHAR(255),
			language VARCHAR(16),
			variant VARCHAR(16),
			text_chars INTEGER DEFAULT 0,
			sentences INTEGER DEFAULT 0,
			audio_ms INTEGER DEFAULT 0,
			elapsed_ms INTEGER DEFAULT 0,
			status VARCHAR(16) NOT NULL,
			error_kind VARCHAR(64),
			detail JSON,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_usage_records_surface ON usage_records(surface)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_kind ON usage_records(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_voice ON usage_records(voice)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_language ON usage_records(language)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_status ON usage_records(status)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_created_at ON usage_records(created_at)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

func (m *Migration001Usage) Down(db *gorm.DB) error {
	return db.Exec(`DROP TABLE IF EXISTS usage_records`).Error
}
