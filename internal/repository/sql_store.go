package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow keeps one whole collection as a JSON document.
type collectionRow struct {
	Path      string `gorm:"primaryKey"`
	Body      string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string {
	return "collections"
}

// SQLCollectionStore is a CollectionStore backed by a Postgres table, with the
// same replace-the-whole-collection semantics as the Firebase REST API.
type SQLCollectionStore struct {
	db *gorm.DB
}

var _ CollectionStore = (*SQLCollectionStore)(nil)

func NewSQLCollectionStore(db *gorm.DB) *SQLCollectionStore {
	return &SQLCollectionStore{db: db}
}

func (s *SQLCollectionStore) Load(ctx context.Context, path string) (json.RawMessage, error) {
	var rows []collectionRow
	if err := s.db.WithContext(ctx).Where("path = ?", path).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	body := bytes.TrimSpace([]byte(rows[0].Body))
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

func (s *SQLCollectionStore) Replace(ctx context.Context, path string, value any) error {
	body, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	row := collectionRow{Path: path, Body: string(body)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&row).Error
}

// Delete drops a whole collection. Entity sub-paths are not addressable here.
func (s *SQLCollectionStore) Delete(ctx context.Context, path string) error {
	return s.db.WithContext(ctx).Where("path = ?", path).Delete(&collectionRow{}).Error
}
