package source

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text with a header row. A leading byte order mark
// and surrounding whitespace are removed before tokenizing. Quoting is lenient
// and rows may have any number of fields.
func ReadCSV(r io.Reader, name string, delim rune) (models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Table{}, NewSourceError(name, "csv", eris.Wrap(err, "read input"))
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))

	cr := csv.NewReader(bytes.NewReader(data))
	if delim != 0 {
		cr.Comma = delim
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	grid, err := cr.ReadAll()
	if err != nil {
		return models.Table{}, NewSourceError(name, "csv", eris.Wrap(err, "tokenize"))
	}
	t, err := buildTable(name, grid)
	if err != nil {
		return models.Table{}, NewSourceError(name, "csv", err)
	}
	return t, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, delim rune) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Table{}, NewSourceError(path, "csv", ErrFileNotFound)
		}
		return models.Table{}, NewSourceError(path, "csv", eris.Wrap(err, "open"))
	}
	defer f.Close()
	return ReadCSV(f, displayName(path), delim)
}
