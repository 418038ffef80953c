package mocks

import (
	"context"

	"product-configurator/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of reconcile.Store
type Store struct {
	mock.Mock
}

func (m *Store) Exists(ctx context.Context, entity string, filter reconcile.Filter) (bool, error) {
	args := m.Called(ctx, entity, filter)
	return args.Bool(0), args.Error(1)
}

func (m *Store) Query(ctx context.Context, entity string, filter reconcile.Filter, fields ...string) ([]reconcile.Record, error) {
	args := m.Called(ctx, entity, filter, fields)
	if recs, ok := args.Get(0).([]reconcile.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Create(ctx context.Context, entity string, fields reconcile.Record) (string, error) {
	args := m.Called(ctx, entity, fields)
	return args.String(0), args.Error(1)
}

func (m *Store) Delete(ctx context.Context, entity string, id string) error {
	args := m.Called(ctx, entity, id)
	return args.Error(0)
}
