// Package files provides file system operations and discovery utilities
// for the ride data pipeline.
//
// This package contains two main components:
//
// Discovery: Provides file discovery operations such as finding the monthly
// extract files (CSV and Excel workbooks) the cleaning stage ingests, always
// sorted by file name so repeated runs process extracts in the same order.
//
// Manager: Provides basic file management operations such as copying, moving,
// deleting files, and ensuring directories exist, plus an atomic write used
// where a reader must never observe a partially written file. All operations
// are relative to the application paths to maintain portability.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery(paths.ExecutableDir)
//
//	// Find all monthly extracts in processing order
//	extracts, err := discovery.FindExtractFiles(paths.ExtractsDir)
//
//	// Create a manager instance
//	manager := files.NewManager(paths)
//
//	// Check if the cleaned artifact exists
//	if manager.FileExists("reports/rides_cleaned.csv") {
//	    // Process artifact
//	}
package files
