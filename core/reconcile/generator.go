package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SetGenerator materializes the numbered children "1".."MaxSlots" of a parent,
// creating only the ones that are missing.
type SetGenerator struct {
	store    Store
	spec     SlotSpec
	observer Observer
}

// NewSetGenerator creates a SetGenerator for the given slot collection.
func NewSetGenerator(store Store, spec SlotSpec, observer Observer) *SetGenerator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &SetGenerator{store: store, spec: spec, observer: observer}
}

// Reconcile creates every missing key of parentID in ascending order and returns
// the keys it created. An empty parentID is a no-op.
//
// The first failed create stops the loop; children created before it stay.
func (g *SetGenerator) Reconcile(ctx context.Context, parentID string) ([]string, error) {
	if g.spec.MaxSlots <= 0 {
		return nil, fmt.Errorf("%w: max slots must be positive, got %d", ErrInvalidSpec, g.spec.MaxSlots)
	}
	if parentID == "" {
		return nil, nil
	}

	existing, err := g.store.Query(ctx, g.spec.ChildEntity, Filter{g.spec.ParentField: parentID}, g.spec.KeyField)
	if err != nil {
		err = storeErr("query", g.spec.ChildEntity, err)
		g.observer.StoreFailed("query", g.spec.ChildEntity, err)
		return nil, err
	}

	present := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		key := stringValue(rec[g.spec.KeyField])
		if strings.TrimSpace(key) != "" {
			present[key] = struct{}{}
		}
	}

	var created []string
	for i := 1; i <= g.spec.MaxSlots; i++ {
		key := strconv.Itoa(i)
		if _, ok := present[key]; ok {
			continue
		}

		_, err := g.store.Create(ctx, g.spec.ChildEntity, Record{
			g.spec.KeyField:    key,
			g.spec.ParentField: parentID,
		})
		if err != nil {
			err = storeErr("create", g.spec.ChildEntity, err)
			g.observer.StoreFailed("create", g.spec.ChildEntity, err)
			g.observer.SlotsCreated(parentID, len(created))
			return created, err
		}
		created = append(created, key)
	}

	g.observer.SlotsCreated(parentID, len(created))
	return created, nil
}
