package source

import (
	"strings"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// buildTable turns a grid of cells into a Table. The first non-blank row holds
// the headers; blank rows are skipped. Cells beyond a short row are absent from
// its record, and a repeated header keeps its first value.
func buildTable(name string, grid [][]string) (models.Table, error) {
	start := -1
	for i, row := range grid {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return models.Table{}, ErrEmptyTable
	}

	raw := grid[start]
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.TrimSpace(h)
	}

	t := models.Table{Source: name, Headers: trimTrailingBlank(headers), Records: []map[string]string{}}
	for _, row := range grid[start+1:] {
		if blankRow(row) {
			continue
		}
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if h == "" || i >= len(row) {
				continue
			}
			if _, dup := rec[h]; dup {
				continue
			}
			rec[h] = strings.TrimSpace(row[i])
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlank(headers []string) []string {
	n := len(headers)
	for n > 0 && headers[n-1] == "" {
		n--
	}
	return headers[:n]
}
