package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

var searchIndexes = []index{
	// Complaint list filters and ordering
	{"complaints", "idx_complaints_status", "status"},
	{"complaints", "idx_complaints_category", "category"},
	{"complaints", "idx_complaints_creator_id", "creator_id"},
	{"complaints", "idx_complaints_created_at", "created_at"},

	// Bounding-box lookups for the community map
	{"complaints", "idx_complaints_location", "location_lat, location_lng"},

	{"volunteer_opportunities", "idx_volunteer_opportunities_date", "date"},
}

// indexExistsQuery returns the catalogue lookup for the connected driver.
func indexExistsQuery(db *gorm.DB) (string, error) {
	switch db.Dialector.Name() {
	case "postgres":
		return `SELECT COUNT(*) FROM pg_indexes WHERE tablename = ? AND indexname = ?`, nil
	case "mysql":
		return `SELECT COUNT(*) FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`, nil
	case "sqlite":
		return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?`, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", db.Dialector.Name())
	}
}

// AddIndexes adds the search indexes used by complaint and volunteer listings.
// Existing indexes are skipped, so it is safe to run on every start.
func AddIndexes(db *gorm.DB) error {
	query, err := indexExistsQuery(db)
	if err != nil {
		return err
	}

	for _, idx := range searchIndexes {
		var count int64
		if err := db.Raw(query, idx.table, idx.name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			log.Printf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs AutoMigrate followed by AddIndexes.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
