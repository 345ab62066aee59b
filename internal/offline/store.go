// Package offline queues complaints reported without connectivity and
// replays them against the API once it is reachable again.
package offline

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PendingComplaint is a complaint waiting to be delivered.
type PendingComplaint struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	IdempotencyKey string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"idempotencyKey"`
	Payload        []byte    `gorm:"not null" json:"payload"`
	Token          string    `gorm:"type:text;not null" json:"-"`
	Attempts       int       `gorm:"not null;default:0" json:"attempts"`
	LastError      string    `gorm:"type:text" json:"lastError,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
}

func (PendingComplaint) TableName() string {
	return "pending_complaints"
}

// Store keeps pending complaints in a local sqlite file.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if needed) the sqlite database at path.
// Use ":memory:" for a throwaway store.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open offline store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get offline store handle: %w", err)
	}
	// sqlite allows a single writer; a memory database is also per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&PendingComplaint{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate offline store: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Add(p *PendingComplaint) error {
	return s.db.Create(p).Error
}

// Pending lists every queued complaint in the order it was enqueued.
func (s *Store) Pending() ([]PendingComplaint, error) {
	var pending []PendingComplaint
	err := s.db.Order("created_at ASC").Order("id ASC").Find(&pending).Error
	return pending, err
}

func (s *Store) Delete(id string) error {
	return s.db.Delete(&PendingComplaint{}, "id = ?", id).Error
}

// RecordFailure bumps the attempt counter and stores the reason.
func (s *Store) RecordFailure(id, reason string) error {
	return s.db.Model(&PendingComplaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}
