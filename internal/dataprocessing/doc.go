// Package dataprocessing implements the cleaning pipeline that turns raw
// monthly ride extracts into the cleaned analysis artifacts.
//
// # Architecture
//
// The package is organized around a small set of sequential steps:
//
// 1. ExtractReader: parses one CSV or Excel extract into a Table
// 2. Combine: outer column union of the per-file tables
// 3. DeriveRecords: fixed-layout timestamp parsing plus derived fields
// 4. ApplyQualityFilters / FinalizeSegments: independent row filters
// 5. Pipeline: orchestrates the steps and writes artifacts and manifest
//
// # Data Flow
//
// The typical flow through this package:
//
//	Extract files → ExtractReader → Tables → Combine → DeriveRecords →
//	ApplyQualityFilters → FinalizeSegments → exporter (CSV + Parquet)
//
// # Failure Model
//
// Failures are split into two classes and never cross between them:
//
//   - Recoverable: a single file that cannot be parsed or lacks required
//     columns, and a single row that fails derivation or a quality
//     predicate. These are logged, counted in the run manifest, and the
//     run continues.
//   - Fatal: no usable files, required columns missing from the combined
//     set, or an empty record set after any step. These abort the run
//     with an error naming the violated invariant.
//
// # Determinism
//
// Runs are single-threaded and file order is sorted by name, so two runs
// over identical input produce byte-for-byte identical artifacts.
package dataprocessing
