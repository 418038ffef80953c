package product_test

import (
	"context"
	"testing"

	"product-configurator/core/database"
	"product-configurator/core/reconcile"
	"product-configurator/core/storage"
	"product-configurator/feature/product"
	"product-configurator/feature/product/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testStorage = storage.Config{Bucket: "catalog", CatalogObject: "catalog/options.json"}

func setupDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func setupService(t *testing.T, client storage.Client) (*product.Service, *gorm.DB) {
	db := setupDB(t)
	svc := product.NewService(db, client, testStorage, reconcile.Config{MaxSlots: 18, Origin: "reconcile"}, nil)
	return svc, db
}

func seedOption(t *testing.T, svc *product.Service, model, slot, name string) {
	opt := &models.ProductOption{ProductModel: model, Name: name}
	if slot != "" {
		opt.Slot = &slot
	}
	require.NoError(t, svc.CreateOption(context.Background(), opt))
}

func slotNames(t *testing.T, db *gorm.DB, model string) []string {
	var names []string
	require.NoError(t, db.Model(&models.ProductSlot{}).Where("product_model = ?", model).Pluck("name", &names).Error)
	return names
}

func lineSlots(t *testing.T, db *gorm.DB, quotation string) []string {
	var slots []string
	require.NoError(t, db.Model(&models.GenerateQuotation{}).Where("product_quotation = ?", quotation).Pluck("slot", &slots).Error)
	return slots
}

func strPtr(s string) *string { return &s }
