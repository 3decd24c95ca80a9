// Package exporter writes and loads the artifacts of the ride pipeline.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, atomic replacement, and UTF-8 BOM for Excel compatibility.
// The aggregate CSVs of the analysis stage are written through it.
//
// Ride artifact codecs: WriteRidesCSV/LoadRidesCSV handle the canonical
// cleaned CSV artifact with its fixed column order and formats;
// WriteRidesParquet/LoadRidesParquet handle the typed Parquet artifact
// (snappy compression, TIMESTAMP_MILLIS timestamps). Both writers are
// atomic so an aborted run leaves no partial artifact, and both loaders
// yield equivalent record sets.
//
// Example usage:
//
//	// Write the cleaned artifacts
//	err := exporter.WriteRidesCSV(paths.GetCleanedCSVPath(), records)
//	err = exporter.WriteRidesParquet(paths.GetCleanedParquetPath(), records)
//
//	// Load one of them back for analysis
//	records, err := exporter.LoadRidesCSV(paths.GetCleanedCSVPath())
package exporter
