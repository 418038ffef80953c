// Package utils provides loose type conversion helpers for values read from
// untyped rows, JSON documents and stream images.
package utils
