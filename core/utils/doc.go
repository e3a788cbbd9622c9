// Package utils provides common utility functions for the lootdex
// application. It includes the loose type-coercion helpers used when reading
// schemaless dump rows, where a quantity may arrive as a float, a string, or
// a JSON null depending on the export pass.
package utils
