package product

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"product-configurator/core/utils"
	"product-configurator/feature/product/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// importBatchSize bounds the rows inserted per statement during catalog import.
const importBatchSize = 100

// CatalogExport is the JSON document holding an option catalog export.
type CatalogExport struct {
	Options []CatalogEntry `json:"options"`
}

// CatalogEntry is one option of a catalog export. Prices may be numbers or
// numeric strings.
type CatalogEntry struct {
	ProductModel string `json:"product_model"`
	Slot         string `json:"slot"`
	Name         string `json:"name"`
	ShortText    string `json:"short_text"`
	Description  string `json:"description"`
	ListCost     any    `json:"list_cost"`
	ListPrice    any    `json:"list_price"`
	ListGM       any    `json:"list_gm"`
}

func (e CatalogEntry) toModel() models.ProductOption {
	opt := models.ProductOption{
		ProductModel: strings.TrimSpace(e.ProductModel),
		Name:         e.Name,
		ShortText:    e.ShortText,
		Description:  e.Description,
		ListCost:     utils.ToFloat(e.ListCost),
		ListPrice:    utils.ToFloat(e.ListPrice),
		ListGM:       utils.ToFloat(e.ListGM),
	}
	if slot := strings.TrimSpace(e.Slot); slot != "" {
		opt.Slot = &slot
	}
	return opt
}

// ImportCatalog loads a catalog export from the storage bucket and inserts its
// options. Concurrent imports of the same object share one run.
func (s *Service) ImportCatalog(ctx context.Context, objectName string) (int, error) {
	if objectName == "" {
		objectName = s.storage.CatalogObject
	}

	// The run is shared, so one caller going away must not fail the others.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.imports.Do(objectName, func() (any, error) {
		return s.importCatalog(runCtx, objectName)
	})
	if shared {
		s.logger.Debug("Catalog import shared", zap.String("object", objectName))
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Service) importCatalog(ctx context.Context, objectName string) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("storage client is not configured")
	}

	exists, err := s.client.BucketExists(ctx, s.storage.Bucket)
	if err != nil {
		return 0, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("bucket %s does not exist", s.storage.Bucket)
	}

	obj, err := s.client.GetObject(ctx, s.storage.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer obj.Close()

	var export CatalogExport
	if err := json.NewDecoder(obj).Decode(&export); err != nil {
		return 0, fmt.Errorf("failed to parse catalog %s: %w", objectName, err)
	}

	options := make([]models.ProductOption, 0, len(export.Options))
	for i, entry := range export.Options {
		opt := entry.toModel()
		if opt.ProductModel == "" {
			return 0, fmt.Errorf("%w: catalog entry %d has no product_model", ErrInvalidInput, i)
		}
		options = append(options, opt)
	}
	if len(options) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&options, importBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to insert catalog options: %w", err)
	}

	s.logger.Info("Catalog imported",
		zap.String("object", objectName),
		zap.Int("count", len(options)),
	)
	return len(options), nil
}

// ListCatalogExports returns the JSON objects stored under prefix.
func (s *Service) ListCatalogExports(ctx context.Context, prefix string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage client is not configured")
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.storage.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list catalog exports: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}
