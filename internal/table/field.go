package table

import "fmt"

// Field is a single delimited-text field as it appeared on the wire.
// Quoted records whether the field was enclosed in double quotes, which
// is the only signal that distinguishes the text "42.5" from the number
// 42.5 once the quotes have been stripped.
type Field struct {
	Value  string
	Quoted bool
}

// Cell coerces the field into a cell. Quoted fields are always text.
// Unquoted fields become numeric when they parse as a number, empty when
// blank, and text otherwise.
func (f Field) Cell() Cell {
	if f.Quoted {
		return Text(f.Value)
	}
	if f.Value == "" {
		return Empty()
	}
	if n, ok := ParseNumber(f.Value); ok {
		return Numeric(n)
	}
	return Text(f.Value)
}

// Grid is the destination of an import. Coordinates are 1-based; row 1,
// column 1 is the top-left cell.
type Grid interface {
	SetField(row, col int, f Field) error
}

// ColumnSetter is implemented by grids that carry column names. The
// importer feeds header fields through it when the caller asked for a
// header record.
type ColumnSetter interface {
	SetColumn(col int, name string) error
}

func errBadCoordinates(row, col int) error {
	return fmt.Errorf("table: coordinates (%d, %d) out of range, rows and columns start at 1", row, col)
}

func errBadColumn(col int) error {
	return fmt.Errorf("table: column %d out of range, columns start at 1", col)
}
