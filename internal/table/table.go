// Package table holds the in-memory grid model that imports fill and
// exports read: a rectangular Table of cells, where every cell is empty,
// numeric, or text. Numeric cells carry decimals so values survive a
// round trip through a file byte-for-byte.
package table

import "github.com/shopspring/decimal"

// CellKind discriminates the three cell states.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumeric
	CellText
)

// Cell is a single grid value. The zero value is the empty cell.
type Cell struct {
	Kind   CellKind
	Number decimal.Decimal // set when Kind is CellNumeric
	Text   string          // set when Kind is CellText
}

// Empty returns the empty cell.
func Empty() Cell {
	return Cell{}
}

// Numeric returns a numeric cell holding d.
func Numeric(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumeric, Number: d}
}

// Text returns a text cell holding s. The string may contain delimiters,
// quotes, or newlines; encoding is the exporter's problem.
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// IsEmpty reports whether the cell is the empty cell.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell's value without any delimiter encoding:
// numeric cells as their plain decimal representation, text cells as-is,
// empty cells as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumeric:
		return c.Number.String()
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Float64 returns the numeric value as a float64. ok is false for empty
// and text cells.
func (c Cell) Float64() (f float64, ok bool) {
	if c.Kind != CellNumeric {
		return 0, false
	}
	f, _ = c.Number.Float64()
	return f, true
}

// Equal reports whether two cells have the same kind and value. Numeric
// cells compare by value, so 42.50 equals 42.5.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumeric:
		return c.Number.Equal(o.Number)
	case CellText:
		return c.Text == o.Text
	default:
		return true
	}
}

// Row is one horizontal slice of a Table.
type Row []Cell

// Table is a rectangular grid of cells with optional column names.
// Rows are padded with empty cells whenever a write widens the table, so
// every row always has Width() cells. A Table is transient: it is built
// for one import, export, or analysis call and is not safe for
// concurrent mutation.
type Table struct {
	columns []string
	rows    []Row
	width   int
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Columns returns the column names, or nil when the table has none.
func (t *Table) Columns() []string {
	return t.columns
}

// SetColumns replaces the column names. Naming columns widens the table
// if there are more names than existing columns.
func (t *Table) SetColumns(names []string) {
	t.columns = names
	if len(names) > t.width {
		t.grow(len(names))
	}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return t.width
}

// Row returns the i'th row (0-based). The returned slice is the table's
// backing storage; callers must not resize it.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Cell returns the cell at 0-based (row, col), or the empty cell when
// the coordinates fall outside the table.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= t.width {
		return Empty()
	}
	return t.rows[row][col]
}

// AppendRow adds a row of cells. Short rows are padded to the table
// width; a wider row widens the table and pads every earlier row.
func (t *Table) AppendRow(cells ...Cell) {
	if len(cells) > t.width {
		t.grow(len(cells))
	}
	row := make(Row, t.width)
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// SetCell writes a cell at 0-based (row, col), growing the table as
// needed. Negative coordinates panic.
func (t *Table) SetCell(row, col int, c Cell) {
	if row < 0 || col < 0 {
		panic("table: negative cell coordinates")
	}
	if col >= t.width {
		t.grow(col + 1)
	}
	for row >= len(t.rows) {
		t.rows = append(t.rows, make(Row, t.width))
	}
	t.rows[row][col] = c
}

// SetField implements the import destination contract: row and col are
// 1-based, matching the insertion-origin convention of the import call
// surface. The raw field is coerced here, not by the importer: an
// unquoted field that parses as a number becomes a numeric cell, an
// unquoted empty field becomes the empty cell, and everything else,
// including any quoted field, stays text.
func (t *Table) SetField(row, col int, f Field) error {
	if row < 1 || col < 1 {
		return errBadCoordinates(row, col)
	}
	t.SetCell(row-1, col-1, f.Cell())
	return nil
}

// SetColumn records a header name for the 1-based column col.
func (t *Table) SetColumn(col int, name string) error {
	if col < 1 {
		return errBadColumn(col)
	}
	for len(t.columns) < col {
		t.columns = append(t.columns, "")
	}
	t.columns[col-1] = name
	if col > t.width {
		t.grow(col)
	}
	return nil
}

// SubTable returns a copy of the rectangular range starting at 0-based
// (row, col) spanning rows x cols cells. Ranges reaching past the table
// edge are clipped. Column names are carried over for the selected
// columns when the range starts at row 0.
func (t *Table) SubTable(row, col, rows, cols int) *Table {
	sub := New()
	if row < 0 || col < 0 || rows <= 0 || cols <= 0 {
		return sub
	}
	endRow := min(row+rows, len(t.rows))
	endCol := min(col+cols, t.width)
	if col < len(t.columns) && row == 0 {
		names := make([]string, 0, endCol-col)
		for c := col; c < endCol && c < len(t.columns); c++ {
			names = append(names, t.columns[c])
		}
		sub.SetColumns(names)
	}
	for r := row; r < endRow; r++ {
		cells := make(Row, 0, endCol-col)
		for c := col; c < endCol; c++ {
			cells = append(cells, t.rows[r][c])
		}
		sub.AppendRow(cells...)
	}
	return sub
}

// Equal reports whether two tables have identical shape, column names,
// and cell values.
func (t *Table) Equal(o *Table) bool {
	if t.width != o.width || len(t.rows) != len(o.rows) || len(t.columns) != len(o.columns) {
		return false
	}
	for i, name := range t.columns {
		if o.columns[i] != name {
			return false
		}
	}
	for r, row := range t.rows {
		for c, cell := range row {
			if !cell.Equal(o.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// Column extracts the 0-based column col as cells, one per row, or nil
// when the table has no such column.
func (t *Table) Column(col int) []Cell {
	if col < 0 || col >= t.width {
		return nil
	}
	out := make([]Cell, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i][col]
	}
	return out
}

func (t *Table) grow(width int) {
	if width <= t.width {
		return
	}
	for i, row := range t.rows {
		padded := make(Row, width)
		copy(padded, row)
		t.rows[i] = padded
	}
	t.width = width
}
