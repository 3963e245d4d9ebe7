package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/shopspring/decimal"
)

func num(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// importInto parses input into a fresh table with the given options.
func importInto(t *testing.T, input string, opts ImportOptions) *table.Table {
	t.Helper()
	dst := table.New()
	if _, err := ImportReader(context.Background(), strings.NewReader(input), int64(len(input)), dst, opts); err != nil {
		t.Fatalf("ImportReader() error = %v", err)
	}
	return dst
}

// ----------------------------------------------------------------------------
// Round-trip properties
// ----------------------------------------------------------------------------

func TestRoundTripPlainTable(t *testing.T) {
	src := table.New()
	src.AppendRow(table.Text("alpha"), table.Numeric(num("1")), table.Text("beta"))
	src.AppendRow(table.Text("gamma"), table.Numeric(num("2.5")), table.Empty())

	encoded := Encode(src, ExportOptions{})
	got := importInto(t, encoded, ImportOptions{})

	if !got.Equal(src) {
		t.Errorf("round trip changed the table:\nexported: %q\ngot %d rows x %d cols", encoded, got.RowCount(), got.Width())
	}
}

func TestRoundTripSpecialCharacters(t *testing.T) {
	const value = `Hello, "World"`

	src := table.New()
	src.AppendRow(table.Text(value))

	encoded := Encode(src, ExportOptions{})
	if want := "\"Hello, \"\"World\"\"\"\n"; encoded != want {
		t.Fatalf("Encode() = %q, want %q", encoded, want)
	}

	got := importInto(t, encoded, ImportOptions{})
	cell := got.Cell(0, 0)
	if cell.Kind != table.CellText || cell.Text != value {
		t.Errorf("re-imported cell = %+v, want text %q", cell, value)
	}
}

func TestRoundTripNumericFidelity(t *testing.T) {
	src := table.New()
	src.AppendRow(table.Numeric(num("42.5")))

	encoded := Encode(src, ExportOptions{})
	if encoded != "42.5\n" {
		t.Fatalf("Encode() = %q, want %q", encoded, "42.5\n")
	}

	got := importInto(t, encoded, ImportOptions{})
	cell := got.Cell(0, 0)
	if cell.Kind != table.CellNumeric {
		t.Fatalf("re-imported cell kind = %v, want numeric", cell.Kind)
	}
	if !cell.Number.Equal(num("42.5")) {
		t.Errorf("re-imported value = %s, want 42.5", cell.Number)
	}
}

func TestRoundTripNumericLookingText(t *testing.T) {
	// The text "42.5" exports quoted, and quoted fields are never coerced,
	// so it must come back as text.
	src := table.New()
	src.AppendRow(table.Text("42.5"))

	encoded := Encode(src, ExportOptions{})
	if encoded != "\"42.5\"\n" {
		t.Fatalf("Encode() = %q, want %q", encoded, "\"42.5\"\n")
	}

	got := importInto(t, encoded, ImportOptions{})
	if cell := got.Cell(0, 0); cell.Kind != table.CellText || cell.Text != "42.5" {
		t.Errorf("re-imported cell = %+v, want text %q", cell, "42.5")
	}
}

func TestRoundTripEmbeddedNewline(t *testing.T) {
	src := table.New()
	src.AppendRow(table.Text("line1\nline2"), table.Numeric(num("7")))

	got := importInto(t, Encode(src, ExportOptions{}), ImportOptions{})
	if !got.Equal(src) {
		t.Error("table with embedded newline did not round trip")
	}
}

func TestRoundTripEmptyRowInSingleColumn(t *testing.T) {
	// A width-one row whose only cell is empty exports as a blank line,
	// which must come back as a row rather than vanish and shift the
	// rows below it up.
	src := table.New()
	src.AppendRow(table.Text("alpha"))
	src.AppendRow(table.Empty())
	src.AppendRow(table.Text("omega"))

	encoded := Encode(src, ExportOptions{})
	if want := "\"alpha\"\n\n\"omega\"\n"; encoded != want {
		t.Fatalf("Encode() = %q, want %q", encoded, want)
	}

	got := importInto(t, encoded, ImportOptions{})
	if got.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", got.RowCount())
	}
	if cell := got.Cell(1, 0); !cell.IsEmpty() {
		t.Errorf("cell (2,1) = %+v, want empty", cell)
	}
	if cell := got.Cell(2, 0); cell.Text != "omega" {
		t.Errorf("cell (3,1) = %+v, want text %q", cell, "omega")
	}
	if !got.Equal(src) {
		t.Errorf("round trip changed the table:\nexported: %q", encoded)
	}
}

func TestRoundTripHeader(t *testing.T) {
	src := table.New()
	src.SetColumns([]string{"Period", "Revenue"})
	src.AppendRow(table.Text("2024-Q1"), table.Numeric(num("1200")))

	encoded := Encode(src, ExportOptions{Header: true})
	got := importInto(t, encoded, ImportOptions{Header: true})

	if !got.Equal(src) {
		t.Errorf("header round trip failed:\nexported: %q", encoded)
	}
}

func TestRoundTripEmptyTable(t *testing.T) {
	src := table.New()

	if encoded := Encode(src, ExportOptions{}); encoded != "" {
		t.Errorf("Encode(empty) = %q, want empty string", encoded)
	}

	got := importInto(t, "", ImportOptions{})
	if got.RowCount() != 0 {
		t.Errorf("import of empty input: RowCount() = %d, want 0", got.RowCount())
	}
}

func TestExportEmptyTableHeaderOnly(t *testing.T) {
	src := table.New()
	src.SetColumns([]string{"Period", "Revenue"})

	encoded := Encode(src, ExportOptions{Header: true})
	if want := "\"Period\",\"Revenue\"\n"; encoded != want {
		t.Errorf("Encode() = %q, want %q", encoded, want)
	}
}

func TestExportEmptyCells(t *testing.T) {
	src := table.New()
	src.AppendRow(table.Text("a"), table.Empty(), table.Numeric(num("3")))

	if encoded := Encode(src, ExportOptions{}); encoded != "\"a\",,3\n" {
		t.Errorf("Encode() = %q, want %q", encoded, "\"a\",,3\n")
	}
}

// ----------------------------------------------------------------------------
// Import placement and options
// ----------------------------------------------------------------------------

func TestImportInsertionOrigin(t *testing.T) {
	dst := table.New()
	input := "x,y\n"
	_, err := ImportReader(context.Background(), strings.NewReader(input), 0, dst, ImportOptions{StartRow: 3, StartCol: 2})
	if err != nil {
		t.Fatalf("ImportReader() error = %v", err)
	}

	if cell := dst.Cell(2, 1); cell.Text != "x" {
		t.Errorf("cell (3,2) = %+v, want text %q", cell, "x")
	}
	if cell := dst.Cell(2, 2); cell.Text != "y" {
		t.Errorf("cell (3,3) = %+v, want text %q", cell, "y")
	}
	if cell := dst.Cell(0, 0); !cell.IsEmpty() {
		t.Errorf("cell (1,1) = %+v, want empty", cell)
	}
}

func TestImportNegativeOriginRejected(t *testing.T) {
	dst := table.New()
	_, err := ImportReader(context.Background(), strings.NewReader("a\n"), 0, dst, ImportOptions{StartRow: -1})
	if !errors.Is(err, ErrBadOrigin) {
		t.Errorf("ImportReader() error = %v, want ErrBadOrigin", err)
	}
}

func TestImportHeaderSuppliesColumnNames(t *testing.T) {
	input := "Name,Amount\n\"Office rent\",1250.00\n"
	dst := table.New()
	res, err := ImportReader(context.Background(), strings.NewReader(input), 0, dst, ImportOptions{Header: true})
	if err != nil {
		t.Fatalf("ImportReader() error = %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0] != "Name" || res.Columns[1] != "Amount" {
		t.Errorf("Columns = %v, want [Name Amount]", res.Columns)
	}
	if res.Rows != 1 {
		t.Errorf("Rows = %d, want 1", res.Rows)
	}
	// The first data record lands at the origin, not below a header slot.
	if cell := dst.Cell(0, 0); cell.Text != "Office rent" {
		t.Errorf("cell (1,1) = %+v, want %q", cell, "Office rent")
	}
	if cols := dst.Columns(); len(cols) != 2 || cols[0] != "Name" {
		t.Errorf("destination columns = %v, want [Name Amount]", cols)
	}
}

func TestImportTypesAtDestination(t *testing.T) {
	input := "100, $1,also text\n"
	// "$1" splits on the raw comma: unquoted fields are split before any
	// numeric interpretation happens.
	dst := table.New()
	if _, err := ImportReader(context.Background(), strings.NewReader(input), 0, dst, ImportOptions{}); err != nil {
		t.Fatalf("ImportReader() error = %v", err)
	}

	if cell := dst.Cell(0, 0); cell.Kind != table.CellNumeric {
		t.Errorf("cell (1,1) kind = %v, want numeric", cell.Kind)
	}
	if cell := dst.Cell(0, 1); cell.Kind != table.CellNumeric {
		t.Errorf("cell (1,2) (%q) kind = %v, want numeric (currency)", cell.String(), cell.Kind)
	}
	if cell := dst.Cell(0, 2); cell.Kind != table.CellText {
		t.Errorf("cell (1,3) kind = %v, want text", cell.Kind)
	}
}

// ----------------------------------------------------------------------------
// Failure handling and atomicity
// ----------------------------------------------------------------------------

func TestImportMissingFile(t *testing.T) {
	dst := table.New()
	_, err := ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), dst, ImportOptions{})

	var ioe *IOFailure
	if !errors.As(err, &ioe) {
		t.Fatalf("ImportFile() error = %v, want *IOFailure", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("underlying cause = %v, want os.ErrNotExist", ioe.Err)
	}
	if dst.RowCount() != 0 {
		t.Errorf("destination has %d rows after failed import, want 0", dst.RowCount())
	}
}

func TestImportParseErrorLeavesDestinationUntouched(t *testing.T) {
	// Two clean records, then a bare quote. All-or-nothing commit means
	// nothing lands in the destination.
	input := "a,b\nc,d\ne\"f\n"
	dst := table.New()
	_, err := ImportReader(context.Background(), strings.NewReader(input), 0, dst, ImportOptions{})

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ImportReader() error = %v, want *ParseError", err)
	}
	if pe.Line != 3 {
		t.Errorf("ParseError.Line = %d, want 3", pe.Line)
	}
	if dst.RowCount() != 0 || dst.Width() != 0 {
		t.Errorf("destination is %dx%d after parse failure, want untouched", dst.RowCount(), dst.Width())
	}
}

func TestImportFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	if err := os.WriteFile(path, []byte("a,b,c\nd,e,f\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	dst := table.New()
	_, err := ImportFile(context.Background(), path, dst, ImportOptions{MaxFileSize: 4})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("ImportFile() error = %v, want ErrFileTooLarge", err)
	}
	if dst.RowCount() != 0 {
		t.Errorf("destination has %d rows, want 0", dst.RowCount())
	}
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dst := table.New()
	_, err := ImportReader(ctx, strings.NewReader("a,b\n"), 0, dst, ImportOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ImportReader() error = %v, want context.Canceled", err)
	}
	if dst.RowCount() != 0 {
		t.Errorf("destination has %d rows after cancellation, want 0", dst.RowCount())
	}
}

func TestImportOK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("1,2\n3,4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !ImportOK(path, table.New(), ImportOptions{}) {
		t.Error("ImportOK(existing file) = false, want true")
	}
	if ImportOK(filepath.Join(dir, "absent.csv"), table.New(), ImportOptions{}) {
		t.Error("ImportOK(missing file) = true, want false")
	}
}

func TestExportFileAndOK(t *testing.T) {
	src := table.New()
	src.SetColumns([]string{"Item", "Cost"})
	src.AppendRow(table.Text("widget"), table.Numeric(num("9.99")))

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ExportFile(src, path, ExportOptions{Header: true}); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "\"Item\",\"Cost\"\n\"widget\",9.99\n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", data, want)
	}

	if !ExportOK(src, path, ExportOptions{}) {
		t.Error("ExportOK(writable path) = false, want true")
	}
	if ExportOK(src, filepath.Join(path, "not-a-dir", "x.csv"), ExportOptions{}) {
		t.Error("ExportOK(unwritable path) = true, want false")
	}
}

func TestExportFileRoundTripOnDisk(t *testing.T) {
	src := table.New()
	src.AppendRow(table.Text(`comma, "quote"`), table.Numeric(num("-12.50")), table.Empty())
	src.AppendRow(table.Text("plain"), table.Numeric(num("0")), table.Text("x"))

	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	if err := ExportFile(src, path, ExportOptions{}); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}

	dst := table.New()
	if _, err := ImportFile(context.Background(), path, dst, ImportOptions{}); err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if !dst.Equal(src) {
		t.Error("on-disk round trip changed the table")
	}
}

// ----------------------------------------------------------------------------
// Preview
// ----------------------------------------------------------------------------

func TestPreview(t *testing.T) {
	input := "Name,Amount\na,1\nb,2\nc,3\n"
	res, err := Preview(strings.NewReader(input), 2, true)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0] != "Name" {
		t.Errorf("Columns = %v, want [Name Amount]", res.Columns)
	}
	if len(res.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2", len(res.Records))
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestPreviewShortInput(t *testing.T) {
	res, err := Preview(strings.NewReader("a,b\n"), 10, false)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(res.Records) != 1 || res.Truncated {
		t.Errorf("Records = %v, Truncated = %v; want 1 record, not truncated", res.Records, res.Truncated)
	}
}
