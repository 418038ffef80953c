package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of a live table.
type ColumnInfo struct {
	Field      string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// GetTableColumns retrieves the column definitions for a given table.
// A missing table yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	migrator := db.Migrator()
	if !migrator.HasTable(tableName) {
		return nil, nil
	}

	types, err := migrator.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		col := ColumnInfo{
			Field: strings.ToLower(ct.Name()),
			Type:  strings.ToLower(ct.DatabaseTypeName()),
		}
		if nullable, ok := ct.Nullable(); ok {
			col.Nullable = nullable
		}
		if pk, ok := ct.PrimaryKey(); ok {
			col.PrimaryKey = pk
		}
		columns = append(columns, col)
	}
	return columns, nil
}
