package product

import (
	"context"
	"fmt"
	"sync"

	"product-configurator/core/database"
	"product-configurator/feature/product/models"

	"gorm.io/gorm/schema"
)

// TableReport lists the columns a table is missing compared to its model.
type TableReport struct {
	Table   string   `json:"table"`
	Exists  bool     `json:"exists"`
	Missing []string `json:"missing,omitempty"`
}

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	OK     bool          `json:"ok"`
	Tables []TableReport `json:"tables"`
}

// CheckSchema compares the live tables with the product models.
func (s *Service) CheckSchema(ctx context.Context) (*SchemaReport, error) {
	db := s.db.WithContext(ctx)
	cache := &sync.Map{}
	report := &SchemaReport{OK: true}

	for _, model := range models.All() {
		sch, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}

		columns, err := database.GetTableColumns(db, sch.Table)
		if err != nil {
			return nil, err
		}

		tr := TableReport{Table: sch.Table, Exists: len(columns) > 0}
		present := make(map[string]bool, len(columns))
		for _, c := range columns {
			present[c.Field] = true
		}
		for _, name := range sch.DBNames {
			if !present[name] {
				tr.Missing = append(tr.Missing, name)
			}
		}
		if !tr.Exists || len(tr.Missing) > 0 {
			report.OK = false
		}
		report.Tables = append(report.Tables, tr)
	}
	return report, nil
}
