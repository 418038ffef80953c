package reconcile

import (
	"context"
	"fmt"
)

// DiffReconciler recomputes the derived children of a parent from the catalog
// entries matching its selection.
//
// Every call deletes all existing children before recreating the target set, so
// child identities never survive a resync.
type DiffReconciler struct {
	store    Store
	spec     DerivedSpec
	observer Observer
}

// NewDiffReconciler creates a DiffReconciler for the given derived collection.
func NewDiffReconciler(store Store, spec DerivedSpec, observer Observer) *DiffReconciler {
	if observer == nil {
		observer = NopObserver{}
	}
	return &DiffReconciler{store: store, spec: spec, observer: observer}
}

// Resync replaces the children of parentID with one child per distinct secondary
// key among catalog entries whose selection equals selection. The first entry
// retrieved for a secondary key wins; entries without one are ignored.
//
// A failure in either phase stops the run and is returned as a single error;
// the returned counts describe what was done before it.
func (r *DiffReconciler) Resync(ctx context.Context, parentID, selection string) (ResyncResult, error) {
	var res ResyncResult

	deleted, err := r.deleteChildren(ctx, parentID)
	res.Deleted = deleted
	r.observer.ResyncDeleted(parentID, deleted)
	if err != nil {
		return res, fmt.Errorf("resync %s %s: %w", r.spec.ParentEntity, parentID, err)
	}

	created, err := r.buildChildren(ctx, parentID, selection)
	res.Created = created
	r.observer.ResyncCreated(parentID, created)
	if err != nil {
		return res, fmt.Errorf("resync %s %s: %w", r.spec.ParentEntity, parentID, err)
	}

	return res, nil
}

func (r *DiffReconciler) deleteChildren(ctx context.Context, parentID string) (int, error) {
	existing, err := r.store.Query(ctx, r.spec.ChildEntity, Filter{r.spec.ChildParentField: parentID}, FieldID)
	if err != nil {
		return 0, r.fail("query", r.spec.ChildEntity, err)
	}

	deleted := 0
	for _, rec := range existing {
		if err := r.store.Delete(ctx, r.spec.ChildEntity, stringValue(rec[FieldID])); err != nil {
			return deleted, r.fail("delete", r.spec.ChildEntity, err)
		}
		deleted++
	}
	return deleted, nil
}

func (r *DiffReconciler) buildChildren(ctx context.Context, parentID, selection string) (int, error) {
	entries, err := r.store.Query(ctx, r.spec.CatalogEntity, Filter{r.spec.CatalogSelectionField: selection})
	if err != nil {
		return 0, r.fail("query", r.spec.CatalogEntity, err)
	}

	seen := make(map[string]struct{}, len(entries))
	created := 0
	for _, entry := range entries {
		secondary := stringValue(entry[r.spec.CatalogSecondaryField])
		if secondary == "" {
			continue
		}
		if _, dup := seen[secondary]; dup {
			continue
		}

		_, err := r.store.Create(ctx, r.spec.ChildEntity, Record{
			r.spec.ChildParentField:    parentID,
			r.spec.ChildSelectionField: selection,
			r.spec.ChildSecondaryField: secondary,
		})
		if err != nil {
			return created, r.fail("create", r.spec.ChildEntity, err)
		}
		seen[secondary] = struct{}{}
		created++
	}
	return created, nil
}

func (r *DiffReconciler) fail(op, entity string, err error) error {
	err = storeErr(op, entity, err)
	r.observer.StoreFailed(op, entity, err)
	return err
}
