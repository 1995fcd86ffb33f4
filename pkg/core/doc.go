// Package core defines the shared language of the pkginfo system.
//
// This package contains:
//   - Tabular data (Row, Table) exchanged between the warehouse and the renderers
//   - The immutable per-invocation query configuration (QueryConfig)
//   - Package name normalization
//   - The error taxonomy (ErrFormat, ErrType)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
