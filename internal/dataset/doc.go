// Package dataset loads the bike rental record set from a CSV or XLSX file.
//
// The file is read at most once per process. Both the parsed records and
// a load failure are memoized, so every caller observes the same outcome.
// Changes to the file after loading are reported through Stale but never
// reloaded.
package dataset
