// Package seriesdb provides uniform access to heterogeneous SQL backends
// behind a single connection contract. Callers pick a backend by name in
// the configuration record and get back the same Connection and Cursor
// interfaces, the same closed error taxonomy, and the same neutral SQL
// conventions regardless of whether SQLite, MySQL, or PostgreSQL sits
// underneath.
//
// Importing this package registers all built-in backend adapters with the
// global driver registry.
package seriesdb
