package reconcile_test

import (
	"context"
	"fmt"
	"sync"

	"product-configurator/core/reconcile"
)

// memStore is an insertion-ordered in-memory reconcile.Store.
type memStore struct {
	mu      sync.Mutex
	rows    map[string][]reconcile.Record
	nextID  int
	creates int

	// failCreateAt makes the n-th Create (1-based) fail when > 0.
	failCreateAt int
	// failOps makes every call of "op:entity" fail.
	failOps map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		rows:    make(map[string][]reconcile.Record),
		failOps: make(map[string]error),
	}
}

func (s *memStore) seed(entity string, rec reconcile.Record) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(entity, rec)
}

func (s *memStore) insert(entity string, rec reconcile.Record) string {
	s.nextID++
	id := fmt.Sprintf("%s-%d", entity, s.nextID)
	row := reconcile.Record{reconcile.FieldID: id}
	for k, v := range rec {
		row[k] = v
	}
	s.rows[entity] = append(s.rows[entity], row)
	return id
}

func (s *memStore) fail(op, entity string) error {
	return s.failOps[op+":"+entity]
}

func matches(rec reconcile.Record, filter reconcile.Filter) bool {
	for k, v := range filter {
		if fmt.Sprint(rec[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func (s *memStore) Exists(ctx context.Context, entity string, filter reconcile.Filter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("exists", entity); err != nil {
		return false, err
	}
	for _, rec := range s.rows[entity] {
		if matches(rec, filter) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Query(ctx context.Context, entity string, filter reconcile.Filter, fields ...string) ([]reconcile.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("query", entity); err != nil {
		return nil, err
	}
	var out []reconcile.Record
	for _, rec := range s.rows[entity] {
		if !matches(rec, filter) {
			continue
		}
		row := reconcile.Record{}
		if len(fields) == 0 {
			for k, v := range rec {
				row[k] = v
			}
		} else {
			row[reconcile.FieldID] = rec[reconcile.FieldID]
			for _, f := range fields {
				row[f] = rec[f]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, entity string, fields reconcile.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("create", entity); err != nil {
		return "", err
	}
	s.creates++
	if s.failCreateAt > 0 && s.creates == s.failCreateAt {
		return "", fmt.Errorf("constraint violation")
	}
	return s.insert(entity, fields), nil
}

func (s *memStore) Delete(ctx context.Context, entity string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete", entity); err != nil {
		return err
	}
	rows := s.rows[entity]
	for i, rec := range rows {
		if rec[reconcile.FieldID] == id {
			s.rows[entity] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return reconcile.ErrNotFound
}

// values returns field of every entity row matching filter, in insertion order.
func (s *memStore) values(entity string, filter reconcile.Filter, field string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, rec := range s.rows[entity] {
		if matches(rec, filter) {
			out = append(out, fmt.Sprint(rec[field]))
		}
	}
	return out
}

// recorder is an Observer that keeps every event it receives.
type recorder struct {
	rejected      []string
	slotsCreated  []int
	resyncDeleted []int
	resyncCreated []int
	storeFailures []string
	skipped       []string
}

func (r *recorder) ValidationRejected(parent, key string, err error) {
	r.rejected = append(r.rejected, key)
}
func (r *recorder) SlotsCreated(parent string, count int) {
	r.slotsCreated = append(r.slotsCreated, count)
}
func (r *recorder) ResyncDeleted(parent string, count int) {
	r.resyncDeleted = append(r.resyncDeleted, count)
}
func (r *recorder) ResyncCreated(parent string, count int) {
	r.resyncCreated = append(r.resyncCreated, count)
}
func (r *recorder) StoreFailed(op, entity string, err error) {
	r.storeFailures = append(r.storeFailures, op+":"+entity)
}
func (r *recorder) Skipped(ev reconcile.Event, reason string) {
	r.skipped = append(r.skipped, reason)
}
