package store

import (
	"context"
	"fmt"

	"product-configurator/core/reconcile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store implements reconcile.Store over gorm, addressing tables by entity name.
type Store struct {
	db *gorm.DB
}

// New creates a store on db. Pass a transaction handle to scope every call to it.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a store bound to a new transaction.
// Returning an error from fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Exists reports whether a row of entity matches filter.
func (s *Store) Exists(ctx context.Context, entity string, filter reconcile.Filter) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table(entity).
		Where(map[string]any(filter)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", entity, err)
	}
	return count > 0, nil
}

// Query returns the rows of entity matching filter. The id column is always
// included when fields narrows the selection.
func (s *Store) Query(ctx context.Context, entity string, filter reconcile.Filter, fields ...string) ([]reconcile.Record, error) {
	tx := s.db.WithContext(ctx).Table(entity).Where(map[string]any(filter))
	if len(fields) > 0 {
		tx = tx.Select(selectColumns(fields))
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", entity, err)
	}

	out := make([]reconcile.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalize(row))
	}
	return out, nil
}

// Get returns the row of entity with the given id.
func (s *Store) Get(ctx context.Context, entity, id string) (reconcile.Record, error) {
	rows, err := s.Query(ctx, entity, reconcile.Filter{reconcile.FieldID: id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %s: %w", entity, id, reconcile.ErrNotFound)
	}
	return rows[0], nil
}

// Create inserts a row and returns its id. A missing id is generated.
func (s *Store) Create(ctx context.Context, entity string, fields reconcile.Record) (string, error) {
	row := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}

	id, _ := row[reconcile.FieldID].(string)
	if id == "" {
		id = uuid.New().String()
		row[reconcile.FieldID] = id
	}

	if err := s.db.WithContext(ctx).Table(entity).Create(row).Error; err != nil {
		return "", fmt.Errorf("failed to create %s: %w", entity, err)
	}
	return id, nil
}

// Update sets fields on the row of entity with the given id.
func (s *Store) Update(ctx context.Context, entity, id string, fields reconcile.Record) error {
	ok, err := s.Exists(ctx, entity, reconcile.Filter{reconcile.FieldID: id})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", entity, id, reconcile.ErrNotFound)
	}
	if len(fields) == 0 {
		return nil
	}

	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == reconcile.FieldID {
			continue
		}
		updates[k] = v
	}

	result := s.db.WithContext(ctx).
		Table(entity).
		Where(reconcile.FieldID+" = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", entity, id, result.Error)
	}
	return nil
}

// Delete removes the row of entity with the given id.
func (s *Store) Delete(ctx context.Context, entity string, id string) error {
	result := s.db.WithContext(ctx).
		Table(entity).
		Where(reconcile.FieldID+" = ?", id).
		Delete(nil)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", entity, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, reconcile.ErrNotFound)
	}
	return nil
}

func selectColumns(fields []string) []string {
	cols := []string{reconcile.FieldID}
	for _, f := range fields {
		if f != reconcile.FieldID {
			cols = append(cols, f)
		}
	}
	return cols
}

// normalize turns driver byte slices into strings.
func normalize(row map[string]any) reconcile.Record {
	rec := make(reconcile.Record, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
			continue
		}
		rec[k] = v
	}
	return rec
}
