package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importBatchSize = 200

// ImportRepository writes seed records with their ids preserved.
type ImportRepository interface {
	// InsertBatch inserts a slice of models as-is. Existing ids fail with
	// ErrDuplicate.
	InsertBatch(ctx context.Context, rows interface{}) error
	// ResetSequences moves id sequences past the imported ids on databases
	// that keep sequences apart from the table.
	ResetSequences(ctx context.Context, tables ...string) error
}

type importRepository struct {
	db *gorm.DB
}

// NewImportRepository creates a new import repository.
func NewImportRepository(db *gorm.DB) ImportRepository {
	return &importRepository{db: db}
}

func (r *importRepository) InsertBatch(ctx context.Context, rows interface{}) error {
	return translate(r.db.WithContext(ctx).
		Omit(clause.Associations).
		CreateInBatches(rows, importBatchSize).Error)
}

func (r *importRepository) ResetSequences(ctx context.Context, tables ...string) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range tables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1)) FROM %[1]s",
			table,
		)
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("reset %s id sequence: %w", table, err)
		}
	}
	return nil
}
