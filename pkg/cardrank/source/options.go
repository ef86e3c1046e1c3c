// Package source reads card comparison tables from files.
package source

import (
	"path/filepath"
	"strings"
)

// Format identifies an input file format.
type Format string

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto Format = ""
	// FormatCSV is comma separated text.
	FormatCSV Format = "csv"
	// FormatTSV is tab separated text.
	FormatTSV Format = "tsv"
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatSQLite is a SQLite database file.
	FormatSQLite Format = "sqlite"
)

// Options configures how a file is read.
type Options struct {
	// Format forces the input format. Empty selects it from the extension.
	Format Format `json:"format" mapstructure:"format"`
	// Sheet names the worksheet to read. Empty uses the active sheet.
	Sheet string `json:"sheet" mapstructure:"sheet"`
	// Table names the SQLite table to read. Empty uses the first user table.
	Table string `json:"table" mapstructure:"table"`
	// UsePrintArea limits a worksheet to its print area when one is defined.
	// If nil, defaults to true.
	UsePrintArea *bool `json:"use_print_area,omitempty" mapstructure:"use_print_area"`
	// ResolveLinks replaces worksheet cell text with its hyperlink target when
	// the text is not itself a URL. If nil, defaults to true.
	ResolveLinks *bool `json:"resolve_links,omitempty" mapstructure:"resolve_links"`
}

// DefaultOptions returns default read options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldUsePrintArea returns whether to honor worksheet print areas.
func (o Options) ShouldUsePrintArea() bool {
	if o.UsePrintArea != nil {
		return *o.UsePrintArea
	}
	return true
}

// ShouldResolveLinks returns whether to substitute hyperlink targets.
func (o Options) ShouldResolveLinks() bool {
	if o.ResolveLinks != nil {
		return *o.ResolveLinks
	}
	return true
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatAuto
	}
}

func displayName(path string) string {
	return filepath.Base(path)
}
