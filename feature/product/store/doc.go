// Package store is the gorm implementation of the reconcile store contract.
//
// Entities map one to one onto table names and records onto column maps, so the
// engine never sees the product models. Create generates a UUID when the record
// carries no id. Update and Delete report reconcile.ErrNotFound for unknown ids.
package store
