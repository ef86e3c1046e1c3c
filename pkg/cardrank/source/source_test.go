package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeff  Card, Issuer ,Annual Fee,Card\n" +
		"\"Gold, Plus\",Acme,\"$1,000\",Shadow\n" +
		"\n" +
		",,,\n" +
		"Short,Bank\n"

	tbl, err := ReadCSV(strings.NewReader(input), "cards.csv", ',')
	require.NoError(t, err)

	assert.Equal(t, "cards.csv", tbl.Source)
	assert.Equal(t, []string{"Card", "Issuer", "Annual Fee", "Card"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, map[string]string{"Card": "Gold, Plus", "Issuer": "Acme", "Annual Fee": "$1,000"}, tbl.Records[0])
	assert.Equal(t, map[string]string{"Card": "Short", "Issuer": "Bank"}, tbl.Records[1])
	_, hasFee := tbl.Records[1]["Annual Fee"]
	assert.False(t, hasFee, "missing cells are absent")
}

func TestReadCSV_TSVAndLazyQuotes(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Card\tRewards\nPlat \"X\"\t2%\n"), "cards.tsv", '\t')
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, `Plat "X"`, tbl.Records[0]["Card"])
	assert.Equal(t, "2%", tbl.Records[0]["Rewards"])
}

func TestReadCSV_Empty(t *testing.T) {
	for _, input := range []string{"", "\ufeff", "  \n\n ", ",,\n,,"} {
		_, err := ReadCSV(strings.NewReader(input), "empty.csv", ',')
		require.Error(t, err, "%q", input)
		assert.True(t, errors.Is(err, ErrEmptyTable), "%q: %v", input, err)

		var se *SourceError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "csv", se.Component)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Card,Issuer\n"), "h.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.NotNil(t, tbl.Records)
}

func TestSample(t *testing.T) {
	tbl := Sample()
	assert.Equal(t, "sample", tbl.Source)
	assert.Len(t, tbl.Headers, 10)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Example Card A", tbl.Records[0]["Card"])
	assert.Equal(t, "$10,000/mo", tbl.Records[1]["Limits"])
	assert.Equal(t, "https://example.com/b", tbl.Records[1]["Link"])
}

func writeXLSX(t *testing.T, setup func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	setup(f)
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX_DataBounds(t *testing.T) {
	path := writeXLSX(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "B3", "Card")
		f.SetCellValue("Sheet1", "C3", "Annual Fee")
		f.SetCellValue("Sheet1", "D3", "Link")
		f.SetCellValue("Sheet1", "B4", "Gold")
		f.SetCellValue("Sheet1", "C4", 95)
		f.SetCellValue("Sheet1", "D4", "Apply")
		require.NoError(t, f.SetCellHyperLink("Sheet1", "D4", "https://example.com/gold", "External"))
		f.SetCellValue("Sheet1", "B6", "Silver")
	})

	tbl, err := ReadXLSX(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "cards.xlsx:Sheet1", tbl.Source)
	assert.Equal(t, []string{"Card", "Annual Fee", "Link"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, map[string]string{"Card": "Gold", "Annual Fee": "95", "Link": "https://example.com/gold"}, tbl.Records[0])
	assert.Equal(t, map[string]string{"Card": "Silver"}, tbl.Records[1])

	noLinks := false
	tbl, err = ReadXLSX(path, Options{ResolveLinks: &noLinks})
	require.NoError(t, err)
	assert.Equal(t, "Apply", tbl.Records[0]["Link"])
}

func TestReadXLSX_NamedSheetAndPrintArea(t *testing.T) {
	path := writeXLSX(t, func(f *excelize.File) {
		_, err := f.NewSheet("Cards")
		require.NoError(t, err)
		f.SetCellValue("Cards", "A1", "Notes")
		f.SetCellValue("Cards", "A2", "Card")
		f.SetCellValue("Cards", "B2", "Issuer")
		f.SetCellValue("Cards", "A3", "Gold")
		f.SetCellValue("Cards", "B3", "Acme")
		f.SetCellValue("Cards", "A9", "Outside")
		require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: "Cards!$A$2:$B$3",
			Scope:    "Cards",
		}))
	})

	tbl, err := ReadXLSX(path, Options{Sheet: "cards"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Card", "Issuer"}, tbl.Headers)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Gold", tbl.Records[0]["Card"])

	ignore := false
	tbl, err = ReadXLSX(path, Options{Sheet: "Cards", UsePrintArea: &ignore})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes"}, tbl.Headers)

	_, err = ReadXLSX(path, Options{Sheet: "Missing"})
	assert.True(t, errors.Is(err, ErrNoTables))
}

func TestReadXLSX_Errors(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound))

	bad := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
	_, err = ReadXLSX(bad, DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	empty := writeXLSX(t, func(*excelize.File) {})
	_, err = ReadXLSX(empty, DefaultOptions())
	assert.True(t, errors.Is(err, ErrEmptyTable))
}

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref           string
		expectedSheet string
		expected      []cellRange
	}{
		{"Sheet1!$A$1:$D$10", "Sheet1", []cellRange{{R1: 1, C1: 1, R2: 10, C2: 4}}},
		{"'My Sheet'!$B$2:$C$3,'My Sheet'!$E$1:$F$2", "My Sheet", []cellRange{{2, 2, 3, 3}, {1, 5, 2, 6}}},
		{"'Bob''s'!D4:A1", "Bob's", []cellRange{{1, 1, 4, 4}}},
		{"$A$1:$B$2", "", nil},
		{"Sheet1!A1", "Sheet1", nil},
	}
	for _, tt := range tests {
		sheet, areas := parsePrintAreaReference(tt.ref)
		assert.Equal(t, tt.expectedSheet, sheet, tt.ref)
		assert.Equal(t, tt.expected, areas, tt.ref)
	}
}

func TestFindDataBoundsAndCrop(t *testing.T) {
	rows := [][]string{
		{},
		{"", "", "x"},
		{"", "a", "", "b"},
	}
	b, ok := findDataBounds(rows)
	require.True(t, ok)
	assert.Equal(t, cellRange{R1: 2, C1: 2, R2: 3, C2: 4}, b)
	assert.Equal(t, [][]string{{"", "x"}, {"a", "", "b"}}, crop(rows, b))

	_, ok = findDataBounds([][]string{{"", " "}})
	assert.False(t, ok)
}

func writeSQLite(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.db")
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

func TestReadSQLite(t *testing.T) {
	path := writeSQLite(t,
		`CREATE TABLE "card list" (Card TEXT, "Annual Fee" REAL, Tier INTEGER, Link TEXT)`,
		`INSERT INTO "card list" VALUES ('Gold', 95.5, 2, NULL), ('Silver', 0, 1, 'https://example.com/s')`,
		`CREATE TABLE zeta (x TEXT)`,
	)

	tbl, err := ReadSQLite(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "cards.db:card list", tbl.Source)
	assert.Equal(t, []string{"Card", "Annual Fee", "Tier", "Link"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, map[string]string{"Card": "Gold", "Annual Fee": "95.5", "Tier": "2"}, tbl.Records[0])
	assert.Equal(t, "https://example.com/s", tbl.Records[1]["Link"])
	assert.Equal(t, "0", tbl.Records[1]["Annual Fee"])

	tbl, err = ReadSQLite(context.Background(), path, "zeta")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tbl.Headers)
	assert.Equal(t, 0, tbl.Len())

	_, err = ReadSQLite(context.Background(), path, "missing")
	assert.Error(t, err)
}

func TestReadSQLite_Errors(t *testing.T) {
	empty := writeSQLite(t, `PRAGMA user_version = 1`)
	_, err := ReadSQLite(context.Background(), empty, "")
	assert.True(t, errors.Is(err, ErrNoTables), "%v", err)

	_, err = ReadSQLite(context.Background(), filepath.Join(t.TempDir(), "none.db"), "")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in       interface{}
		expected string
		ok       bool
	}{
		{nil, "", false},
		{"a", "a", true},
		{[]byte("b"), "b", true},
		{int64(-3), "-3", true},
		{1.25, "1.25", true},
		{true, "true", true},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z", true},
	}
	for _, tt := range tests {
		got, ok := cellText(tt.in)
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Card,Issuer\nGold,Acme\n"), 0o644))
	tsvPath := filepath.Join(dir, "cards.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte("Card\tIssuer\nGold\tAcme\n"), 0o644))
	odd := filepath.Join(dir, "cards.json")
	require.NoError(t, os.WriteFile(odd, []byte("{}"), 0o644))

	ctx := context.Background()
	for _, p := range []string{csvPath, tsvPath} {
		tbl, err := Open(ctx, p, DefaultOptions())
		require.NoError(t, err, p)
		assert.Equal(t, []map[string]string{{"Card": "Gold", "Issuer": "Acme"}}, tbl.Records)
	}

	_, err := Open(ctx, odd, DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	tbl, err := Open(ctx, odd, Options{Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, []string{"{}"}, tbl.Headers)

	_, err = Open(ctx, filepath.Join(dir, "missing.csv"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.CSV":     FormatCSV,
		"a.txt":     FormatCSV,
		"a.tsv":     FormatTSV,
		"a.xlsx":    FormatXLSX,
		"b.xlsm":    FormatXLSX,
		"c.sqlite3": FormatSQLite,
		"d.db":      FormatSQLite,
		"e.pdf":     FormatAuto,
	}
	for path, expected := range tests {
		assert.Equal(t, expected, DetectFormat(path), path)
	}
}

func TestSourceError(t *testing.T) {
	err := NewSourceError("x.csv", "csv", ErrEmptyTable)
	assert.Equal(t, `read error in "x.csv" (csv): table has no header row`, err.Error())
	assert.Equal(t, ErrEmptyTable, err.Unwrap())
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("Card\nGold\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tables := make(chan models.Table, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, DefaultOptions(), 20*time.Millisecond, func(tbl models.Table, err error) {
			if err == nil {
				tables <- tbl
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("Card\nGold\nSilver\n"), 0o644))

	select {
	case tbl := <-tables:
		assert.Equal(t, 2, tbl.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
