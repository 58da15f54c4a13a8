// Package core defines the shared language of the primitivedb system.
//
// This package contains:
//   - Typed values (Value, Kind) and records (Record, Predicate, Assignments)
//   - Table shape (ColumnType, ColumnDefinition, TableSchema, Metadata)
//   - The error taxonomy surfaced by every layer
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
