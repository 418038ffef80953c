package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductModel is a configurable product.
type ProductModel struct {
	ID   string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

// BeforeCreate hook to generate UUID
func (m *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (ProductModel) TableName() string {
	return "product_models"
}

// ProductSlot is one numbered slot of a product model.
// The (product_model, name) pair is unique.
type ProductSlot struct {
	ID           string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ProductModel string `gorm:"column:product_model;type:varchar(36);not null;uniqueIndex:idx_slot_model_name" json:"product_model"`
	Name         string `gorm:"column:name;type:varchar(64);not null;uniqueIndex:idx_slot_model_name" json:"name"`
}

func (ProductSlot) TableName() string {
	return "product_slots"
}

// ProductOption is a catalog entry offered for a slot of a product model.
type ProductOption struct {
	ID           string  `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ProductModel string  `gorm:"column:product_model;type:varchar(36);index" json:"product_model"`
	Slot         *string `gorm:"column:slot;type:varchar(64)" json:"slot"`
	Name         string  `gorm:"column:name;type:varchar(255)" json:"name"`
	ShortText    string  `gorm:"column:short_text;type:varchar(255)" json:"short_text"`
	Description  string  `gorm:"column:description;type:text" json:"description"`
	ListCost     float64 `gorm:"column:list_cost" json:"list_cost"`
	ListPrice    float64 `gorm:"column:list_price" json:"list_price"`
	ListGM       float64 `gorm:"column:list_gm" json:"list_gm"`
}

// BeforeCreate hook to generate UUID
func (o *ProductOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

func (ProductOption) TableName() string {
	return "product_options"
}

// ProductQuotation is a quote for a selected product model.
type ProductQuotation struct {
	ID           string  `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name         string  `gorm:"column:name;type:varchar(255)" json:"name"`
	ProductModel *string `gorm:"column:product_model;type:varchar(36)" json:"product_model"`
}

func (ProductQuotation) TableName() string {
	return "product_quotations"
}

// GenerateQuotation is a quotation line derived from the option catalog.
type GenerateQuotation struct {
	ID               string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ProductQuotation string `gorm:"column:product_quotation;type:varchar(36);not null;index" json:"product_quotation"`
	ProductModel     string `gorm:"column:product_model;type:varchar(36)" json:"product_model"`
	Slot             string `gorm:"column:slot;type:varchar(64)" json:"slot"`
}

func (GenerateQuotation) TableName() string {
	return "generate_quotations"
}

// All returns every model of the product domain, in migration order.
func All() []any {
	return []any{
		&ProductModel{},
		&ProductSlot{},
		&ProductOption{},
		&ProductQuotation{},
		&GenerateQuotation{},
	}
}

// Migrate creates or updates the product tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
