package source

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// cellRange is an inclusive, 1-based block of cells.
type cellRange struct {
	R1, C1, R2, C2 int
}

// ReadXLSX reads one worksheet of an xlsx workbook as a Table.
// The table region is the sheet's print area when one is defined and enabled,
// otherwise the bounding box of its non-empty cells.
func ReadXLSX(path string, opts Options) (models.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return models.Table{}, NewSourceError(path, "xlsx", ErrFileNotFound)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Table{}, NewSourceError(path, "xlsx", eris.Wrapf(ErrUnsupportedFormat, "open workbook: %v", err))
	}
	defer f.Close()

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return models.Table{}, NewSourceError(path, "xlsx", err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, NewSourceError(path, "xlsx", eris.Wrapf(err, "read sheet %q", sheet))
	}

	region, ok := cellRange{}, false
	if opts.ShouldUsePrintArea() {
		if areas := extractPrintAreas(f)[sheet]; len(areas) > 0 {
			region, ok = areas[0], true
		}
	}
	if !ok {
		if region, ok = findDataBounds(rows); !ok {
			return models.Table{}, NewSourceError(path, "xlsx", ErrEmptyTable)
		}
	}

	grid := crop(rows, region)
	if opts.ShouldResolveLinks() {
		resolveLinks(f, sheet, region, grid)
	}

	t, err := buildTable(displayName(path)+":"+sheet, grid)
	if err != nil {
		return models.Table{}, NewSourceError(path, "xlsx", err)
	}
	return t, nil
}

// pickSheet returns want when it exists, else the active sheet, else the first sheet.
func pickSheet(f *excelize.File, want string) (string, error) {
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", ErrNoTables
	}
	if want != "" {
		for _, name := range list {
			if strings.EqualFold(name, want) {
				return name, nil
			}
		}
		return "", eris.Wrapf(ErrNoTables, "sheet %q", want)
	}
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name, nil
	}
	return list[0], nil
}

// findDataBounds returns the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (cellRange, bool) {
	b := cellRange{}
	found := false
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			r, c := rowIdx+1, colIdx+1
			if !found {
				b = cellRange{R1: r, C1: c, R2: r, C2: c}
				found = true
				continue
			}
			b.R1, b.R2 = min(b.R1, r), max(b.R2, r)
			b.C1, b.C2 = min(b.C1, c), max(b.C2, c)
		}
	}
	return b, found
}

// crop copies the cells of rows inside region. Short rows stay short.
func crop(rows [][]string, region cellRange) [][]string {
	var out [][]string
	for r := region.R1; r <= region.R2 && r <= len(rows); r++ {
		row := rows[r-1]
		var cells []string
		for c := region.C1; c <= region.C2 && c <= len(row); c++ {
			cells = append(cells, row[c-1])
		}
		out = append(out, cells)
	}
	return out
}

// resolveLinks replaces non-URL cell text inside region with its hyperlink target.
func resolveLinks(f *excelize.File, sheet string, region cellRange, grid [][]string) {
	for i, row := range grid {
		for j, v := range row {
			if v == "" || models.IsURLLike(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(region.C1+j, region.R1+i)
			if err != nil {
				continue
			}
			hasLink, target, err := f.GetCellHyperLink(sheet, cell)
			if err == nil && hasLink && models.IsURLLike(target) {
				grid[i][j] = target
			}
		}
	}
}

// extractPrintAreas returns the print areas of a workbook keyed by sheet name.
func extractPrintAreas(f *excelize.File) map[string][]cellRange {
	result := make(map[string][]cellRange)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet == "" {
			sheet = dn.Scope
		}
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses 'Sheet Name'!$A$1:$D$10[,...].
func parsePrintAreaReference(ref string) (string, []cellRange) {
	var (
		sheet string
		areas []cellRange
	)
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		if sheet == "" {
			sheet = strings.ReplaceAll(strings.Trim(part[:idx], "'"), "''", "'")
		}
		if area, ok := parseRange(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheet, areas
}

// parseRange parses a range such as $A$1:$D$10.
func parseRange(s string) (cellRange, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "$", ""), ":")
	if len(parts) != 2 {
		return cellRange{}, false
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return cellRange{}, false
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return cellRange{}, false
	}
	return cellRange{R1: min(r1, r2), C1: min(c1, c2), R2: max(r1, r2), C2: max(c1, c2)}, true
}
