// Package file provides a row source that reads an uploaded sales file.
//
// Supported formats are CSV, TSV and JSON, chosen by file extension or
// the "format" config key. Spreadsheet files (.xlsx, .xls) are rejected
// with domain.ErrUnsupportedType; export them to CSV first.
//
// The source can watch its file with fsnotify and reports a change on
// every create or write.
package file
