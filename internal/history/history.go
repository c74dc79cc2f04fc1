package history

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Insight kinds.
const (
	KindSummary = "summary"
	KindActions = "actions"
)

// Insight is one generated admin insight, kept so past summaries and action
// lists remain reviewable.
type Insight struct {
	gorm.Model
	Kind        string `json:"kind" gorm:"index;not null"`
	Content     string `json:"content" gorm:"type:text;not null"`
	RecordCount int    `json:"record_count" gorm:"not null;default:0"`
}

// Store persists generated insights in a sqlite database.
type Store struct {
	db *gorm.DB
}

// Open creates (if needed) and migrates the insight database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return OpenWithDB(db)
}

// OpenWithDB wraps a pre-configured *gorm.DB (useful for testing).
func OpenWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Insight{}); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores one generated insight.
func (s *Store) Record(kind, content string, recordCount int) error {
	ins := Insight{Kind: kind, Content: content, RecordCount: recordCount}
	if err := s.db.Create(&ins).Error; err != nil {
		return fmt.Errorf("record insight: %w", err)
	}
	return nil
}

// List returns insights newest-first, optionally filtered by kind and capped
// at limit (0 means no cap).
func (s *Store) List(kind string, limit int) ([]Insight, error) {
	query := s.db.Order("created_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var insights []Insight
	if err := query.Find(&insights).Error; err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return insights, nil
}

// Latest returns the most recent insight of the given kind, or nil if none
// has been generated yet.
func (s *Store) Latest(kind string) (*Insight, error) {
	var ins Insight
	err := s.db.Where("kind = ?", kind).Order("created_at DESC").First(&ins).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest insight: %w", err)
	}
	return &ins, nil
}
