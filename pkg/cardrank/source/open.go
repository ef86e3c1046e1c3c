package source

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

//go:embed sample.csv
var sampleCSV string

// Sample returns the built-in two-row demonstration table.
func Sample() models.Table {
	t, err := ReadCSV(strings.NewReader(sampleCSV), "sample", ',')
	if err != nil {
		panic("source: embedded sample is invalid: " + err.Error())
	}
	return t
}

// Open reads the table stored at path using the format in opts, or the one
// implied by the file extension.
func Open(ctx context.Context, path string, opts Options) (models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return models.Table{}, NewSourceError(path, "open", ErrFileNotFound)
		}
		return models.Table{}, NewSourceError(path, "open", eris.Wrap(err, "stat"))
	}

	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	switch format {
	case FormatCSV:
		return ReadCSVFile(path, ',')
	case FormatTSV:
		return ReadCSVFile(path, '\t')
	case FormatXLSX:
		return ReadXLSX(path, opts)
	case FormatSQLite:
		return ReadSQLite(ctx, path, opts.Table)
	default:
		return models.Table{}, NewSourceError(path, "open", eris.Wrapf(ErrUnsupportedFormat, "format %q", string(format)))
	}
}
