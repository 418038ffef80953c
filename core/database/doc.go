// Package database opens GORM connections and inspects live schemas.
//
// Connect supports two drivers: MySQL for deployments and SQLite for local runs
// and tests (Name is then the file path, or ":memory:").
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table through the GORM migrator, so the
// same call works on both drivers. The product feature uses it to verify that the
// reconcile tables carry every column its models map.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "product_slots")
package database
