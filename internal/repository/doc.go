// Package repository holds the storage-level sentinel errors shared by the
// SQLite implementation and the domain services. Each domain package declares
// the repository interfaces it consumes; internal/sqlite implements them.
package repository
