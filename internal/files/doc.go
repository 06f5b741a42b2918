// Package files lists the views saved under the export directory.
//
// Discovery only reports regular CSV and XLSX files directly inside its
// base directory; subdirectories and other file types are ignored. Names
// handed to Resolve must be bare file names, so a caller cannot reach
// outside the export directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.ExportDir)
//	saved, err := discovery.FindExports()
//	latest, ok := files.GetLatestFile(saved)
package files
