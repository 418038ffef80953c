// Package models defines the gorm models of the product configurator tables.
//
// Product models own a fixed set of numbered slots. Product options form the
// catalog joined on the model selected by a quotation; the resulting lines live
// in generate_quotations.
package models
