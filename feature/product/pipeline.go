package product

import (
	"context"
	"fmt"
	"sort"

	"product-configurator/core/reconcile"
	"product-configurator/feature/product/store"

	"go.uber.org/zap"
)

type ctxKey int

const (
	depthKey ctxKey = iota
	originKey
)

// WithDepth returns a context carrying the transaction nesting depth.
func WithDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey, depth)
}

// Depth returns the transaction nesting depth of ctx, 0 outside any mutation.
func Depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey).(int)
	return d
}

// WithOrigin returns a context tagging mutations with the writer that issued them.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// Origin returns the writer tag of ctx.
func Origin(ctx context.Context) string {
	o, _ := ctx.Value(originKey).(string)
	return o
}

// Mutation is a single write submitted to the pipeline.
type Mutation struct {
	Kind   reconcile.MessageKind
	Entity string
	// ID identifies the target of an update or delete. Optional for creates.
	ID     string
	Fields reconcile.Record
	// ChangedFields defaults to the keys of Fields.
	ChangedFields []string
}

// Execution reports the stages run for a mutation.
type Execution struct {
	ID         string             `json:"id"`
	PreCommit  *reconcile.Outcome `json:"pre_commit,omitempty"`
	PostCommit *reconcile.Outcome `json:"post_commit,omitempty"`
	// PostCommitErr is set when the post-commit stage failed. The mutation
	// itself stays committed.
	PostCommitErr   error  `json:"-"`
	PostCommitError string `json:"post_commit_error,omitempty"`
}

// Pipeline applies mutations inside a transaction and fires the reconcile
// engine before and after commit.
type Pipeline struct {
	store    *store.Store
	cfg      reconcile.Config
	observer reconcile.Observer
	logger   *zap.Logger
}

// NewPipeline creates a pipeline over s.
func NewPipeline(s *store.Store, cfg reconcile.Config, observer reconcile.Observer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = reconcile.NopObserver{}
	}
	return &Pipeline{store: s, cfg: cfg, observer: observer, logger: logger}
}

// Store returns the store the pipeline writes to.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// Execute runs m through the pre-commit stage, applies it and commits, then
// runs the post-commit stage. A pre-commit rejection rolls everything back and
// is returned as the error.
func (p *Pipeline) Execute(ctx context.Context, m Mutation) (*Execution, error) {
	depth := Depth(ctx) + 1
	origin := Origin(ctx)
	changed := m.ChangedFields
	if len(changed) == 0 {
		changed = fieldNames(m.Fields)
	}

	exec := &Execution{ID: m.ID}
	err := p.store.Transaction(ctx, func(tx *store.Store) error {
		engine := reconcile.NewEngine(tx, p.cfg, p.observer)
		out, err := engine.Handle(ctx, reconcile.Event{
			Stage:         reconcile.PreCommit,
			Kind:          m.Kind,
			Entity:        m.Entity,
			PrimaryID:     m.ID,
			ChangedFields: changed,
			Payload:       m.Fields,
			Depth:         depth,
			Origin:        origin,
		})
		if err != nil {
			return err
		}
		exec.PreCommit = out

		id, err := apply(ctx, tx, m)
		if err != nil {
			return err
		}
		exec.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	out, err := p.engine(ctx, depth).Handle(ctx, reconcile.Event{
		Stage:         reconcile.PostCommit,
		Kind:          m.Kind,
		Entity:        m.Entity,
		PrimaryID:     exec.ID,
		ChangedFields: changed,
		Payload:       m.Fields,
		Depth:         depth,
		Origin:        origin,
	})
	exec.PostCommit = out
	if err != nil {
		p.logger.Error("Post-commit stage failed",
			zap.String("entity", m.Entity),
			zap.String("id", exec.ID),
			zap.Int("depth", depth),
			zap.Error(err),
		)
		exec.PostCommitErr = err
		exec.PostCommitError = err.Error()
	}
	return exec, nil
}

// Handle runs an already committed event, as delivered by a change feed,
// through the engine. Writes it issues go back through the pipeline.
func (p *Pipeline) Handle(ctx context.Context, ev reconcile.Event) (*reconcile.Outcome, error) {
	return p.engine(ctx, ev.Depth).Handle(ctx, ev)
}

// Validate checks a proposed slot key against the committed slots.
func (p *Pipeline) Validate(ctx context.Context, modelID, key string) error {
	return p.engine(ctx, Depth(ctx)+1).Validate(ctx, modelID, key)
}

// Reconcile fills in the missing slots of a product model.
func (p *Pipeline) Reconcile(ctx context.Context, modelID string) ([]string, error) {
	return p.engine(ctx, Depth(ctx)+1).Reconcile(ctx, modelID)
}

// Resync rebuilds the lines of a quotation from the catalog of selection.
func (p *Pipeline) Resync(ctx context.Context, quotationID, selection string) (reconcile.ResyncResult, error) {
	return p.engine(ctx, Depth(ctx)+1).Resync(ctx, quotationID, selection)
}

// engine returns an engine whose writes re-enter the pipeline one level deeper
// and tagged with the engine origin.
func (p *Pipeline) engine(ctx context.Context, depth int) *reconcile.Engine {
	return reconcile.NewEngine(&reentrantStore{
		pipeline: p,
		depth:    depth,
	}, p.cfg, p.observer)
}

func apply(ctx context.Context, tx *store.Store, m Mutation) (string, error) {
	switch m.Kind {
	case reconcile.MessageCreate:
		fields := m.Fields
		if m.ID != "" {
			fields = make(reconcile.Record, len(m.Fields)+1)
			for k, v := range m.Fields {
				fields[k] = v
			}
			fields[reconcile.FieldID] = m.ID
		}
		return tx.Create(ctx, m.Entity, fields)
	case reconcile.MessageUpdate:
		if m.ID == "" {
			return "", fmt.Errorf("update %s: %w", m.Entity, ErrMissingID)
		}
		return m.ID, tx.Update(ctx, m.Entity, m.ID, m.Fields)
	case reconcile.MessageDelete:
		if m.ID == "" {
			return "", fmt.Errorf("delete %s: %w", m.Entity, ErrMissingID)
		}
		return m.ID, tx.Delete(ctx, m.Entity, m.ID)
	default:
		return "", fmt.Errorf("unsupported mutation kind: %s", m.Kind)
	}
}

func fieldNames(fields reconcile.Record) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// reentrantStore reads from the committed store and submits every write as a
// nested pipeline mutation.
type reentrantStore struct {
	pipeline *Pipeline
	depth    int
}

func (s *reentrantStore) nested(ctx context.Context) context.Context {
	return WithOrigin(WithDepth(ctx, s.depth), s.pipeline.cfg.Origin)
}

func (s *reentrantStore) Exists(ctx context.Context, entity string, filter reconcile.Filter) (bool, error) {
	return s.pipeline.store.Exists(ctx, entity, filter)
}

func (s *reentrantStore) Query(ctx context.Context, entity string, filter reconcile.Filter, fields ...string) ([]reconcile.Record, error) {
	return s.pipeline.store.Query(ctx, entity, filter, fields...)
}

func (s *reentrantStore) Create(ctx context.Context, entity string, fields reconcile.Record) (string, error) {
	exec, err := s.pipeline.Execute(s.nested(ctx), Mutation{
		Kind:   reconcile.MessageCreate,
		Entity: entity,
		Fields: fields,
	})
	if err != nil {
		return "", err
	}
	return exec.ID, nil
}

func (s *reentrantStore) Delete(ctx context.Context, entity string, id string) error {
	_, err := s.pipeline.Execute(s.nested(ctx), Mutation{
		Kind:   reconcile.MessageDelete,
		Entity: entity,
		ID:     id,
	})
	return err
}
