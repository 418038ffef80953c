package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"product-configurator/core/reconcile"
	"product-configurator/core/storage"
	"product-configurator/core/utils"
	"product-configurator/feature/product/models"
	"product-configurator/feature/product/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// quotationFields lists the quotation columns a client may update.
var quotationFields = map[string]bool{
	reconcile.FieldName:         true,
	reconcile.FieldProductModel: true,
}

// Service implements the product configurator operations.
type Service struct {
	db       *gorm.DB
	pipeline *Pipeline
	client   storage.Client
	storage  storage.Config
	logger   *zap.Logger
	imports  singleflight.Group
}

// NewService creates a new product service.
func NewService(db *gorm.DB, client storage.Client, storageCfg storage.Config, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := reconcile.NewZapObserver(logger.Named("reconcile"))
	return &Service{
		db:       db,
		pipeline: NewPipeline(store.New(db), cfg, observer, logger),
		client:   client,
		storage:  storageCfg,
		logger:   logger,
	}
}

// Pipeline returns the mutation pipeline used by the service.
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// CreateModel creates a product model. Slots are added through CreateSlot.
func (s *Service) CreateModel(ctx context.Context, name string) (*models.ProductModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: model name is required", ErrInvalidInput)
	}
	m := &models.ProductModel{Name: name}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create product model: %w", err)
	}
	return m, nil
}

// CreateSlot creates a slot on a product model. The first slot created for a
// model fills in the rest of the numbered set after commit.
func (s *Service) CreateSlot(ctx context.Context, modelID, name string) (*Execution, error) {
	if err := s.requireModel(ctx, modelID); err != nil {
		return nil, err
	}
	return s.pipeline.Execute(ctx, Mutation{
		Kind:   reconcile.MessageCreate,
		Entity: reconcile.EntityProductSlot,
		Fields: reconcile.Record{
			reconcile.FieldProductModel: modelID,
			reconcile.FieldName:         name,
		},
	})
}

// ListSlots returns the slots of a model in numeric order.
func (s *Service) ListSlots(ctx context.Context, modelID string) ([]models.ProductSlot, error) {
	if err := s.requireModel(ctx, modelID); err != nil {
		return nil, err
	}
	var slots []models.ProductSlot
	if err := s.db.WithContext(ctx).Where("product_model = ?", modelID).Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := utils.ToInt(slots[i].Name), utils.ToInt(slots[j].Name)
		if a != b {
			return a < b
		}
		return slots[i].Name < slots[j].Name
	})
	return slots, nil
}

// GenerateSlots creates whichever numbered slots a model is missing.
func (s *Service) GenerateSlots(ctx context.Context, modelID string) ([]string, error) {
	if err := s.requireModel(ctx, modelID); err != nil {
		return nil, err
	}
	return s.pipeline.Reconcile(ctx, modelID)
}

// ValidateSlot reports whether key could be added to the model.
func (s *Service) ValidateSlot(ctx context.Context, modelID, key string) error {
	return s.pipeline.Validate(ctx, modelID, key)
}

// CreateOption adds a catalog entry.
func (s *Service) CreateOption(ctx context.Context, opt *models.ProductOption) error {
	if strings.TrimSpace(opt.ProductModel) == "" {
		return fmt.Errorf("%w: product_model is required", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(opt).Error; err != nil {
		return fmt.Errorf("failed to create product option: %w", err)
	}
	return nil
}

// CreateQuotation creates a quotation. A selected model generates its lines
// after commit.
func (s *Service) CreateQuotation(ctx context.Context, name string, modelID *string) (*Execution, error) {
	fields := reconcile.Record{reconcile.FieldName: name}
	if modelID != nil && strings.TrimSpace(*modelID) != "" {
		fields[reconcile.FieldProductModel] = *modelID
	} else {
		fields[reconcile.FieldProductModel] = nil
	}
	return s.pipeline.Execute(ctx, Mutation{
		Kind:   reconcile.MessageCreate,
		Entity: reconcile.EntityProductQuotation,
		Fields: fields,
	})
}

// UpdateQuotation applies fields to a quotation. Changing the product model
// replaces the quotation lines.
func (s *Service) UpdateQuotation(ctx context.Context, id string, fields map[string]any) (*Execution, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	rec := make(reconcile.Record, len(fields))
	for k, v := range fields {
		if !quotationFields[k] {
			return nil, fmt.Errorf("%w: field %q cannot be updated", ErrInvalidInput, k)
		}
		rec[k] = v
	}
	return s.pipeline.Execute(ctx, Mutation{
		Kind:   reconcile.MessageUpdate,
		Entity: reconcile.EntityProductQuotation,
		ID:     id,
		Fields: rec,
	})
}

// ResyncQuotation rebuilds the lines of a quotation from its current model.
func (s *Service) ResyncQuotation(ctx context.Context, id string) (reconcile.ResyncResult, error) {
	var q models.ProductQuotation
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reconcile.ResyncResult{}, fmt.Errorf("quotation %s: %w", id, reconcile.ErrNotFound)
		}
		return reconcile.ResyncResult{}, fmt.Errorf("failed to load quotation: %w", err)
	}
	if q.ProductModel == nil || strings.TrimSpace(*q.ProductModel) == "" {
		return reconcile.ResyncResult{}, ErrNoSelection
	}
	return s.pipeline.Resync(ctx, q.ID, *q.ProductModel)
}

// ListQuotationLines returns the lines of a quotation ordered by slot.
func (s *Service) ListQuotationLines(ctx context.Context, id string) ([]models.GenerateQuotation, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProductQuotation{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load quotation: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("quotation %s: %w", id, reconcile.ErrNotFound)
	}

	var lines []models.GenerateQuotation
	if err := s.db.WithContext(ctx).Where("product_quotation = ?", id).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list quotation lines: %w", err)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Slot < lines[j].Slot })
	return lines, nil
}

func (s *Service) requireModel(ctx context.Context, modelID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProductModel{}).Where("id = ?", modelID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load product model: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("product model %s: %w", modelID, reconcile.ErrNotFound)
	}
	return nil
}
