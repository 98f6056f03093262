package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// documentRowID is the primary key of the only row in the documents table.
const documentRowID = 1

// SQLiteStore keeps the document as JSON text in a single table row.
type SQLiteStore struct {
	DB *gorm.DB
}

// NewSQLiteStore wraps db; the schema must already be migrated.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

// Load returns the stored document, or (nil, nil) if the row does not exist.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.Document, error) {
	var rec domain.DocumentRecord
	err := s.DB.WithContext(ctx).First(&rec, documentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var d domain.Document
	if err := json.Unmarshal([]byte(rec.Body), &d); err != nil {
		return nil, fmt.Errorf("decode document row: %w", err)
	}
	return &d, nil
}

// Save upserts the document row.
func (s *SQLiteStore) Save(ctx context.Context, d *domain.Document) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	rec := domain.DocumentRecord{
		ID:        documentRowID,
		Version:   d.Version,
		Body:      string(body),
		UpdatedAt: time.Now().UTC(),
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}
