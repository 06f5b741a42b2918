// Package exporter writes filtered views as CSV or XLSX.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with headers and a UTF-8 BOM
// for Excel compatibility.
//
// XLSXWriter: Single-sheet workbooks with typed cells, written with excelize.
//
// ViewExporter: Turns a FilteredView into a table, records plus their bin
// labels, and hands it to the writer for the requested format.
//
// Example usage:
//
//	exp := exporter.NewViewExporter(paths, logger)
//
//	// Stream a view to an HTTP response
//	err := exp.Export(ctx, w, view, exporter.FormatXLSX, domain.LocaleEnglish)
//
//	// Or save it under the export directory
//	path, err := exp.ExportFile(ctx, view, exporter.FormatCSV, "weekend", domain.LocaleEnglish)
package exporter
