package statement

import (
	"fmt"
	"strings"

	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/shopspring/decimal"
)

// Statement holds one mapped statement: period labels in source order and
// a value series per line-item key. Every series has one point per
// period; points a source cell could not supply are null.
type Statement struct {
	Definition Definition
	Periods    []string
	Values     map[string][]decimal.NullDecimal
}

// Series returns the value series for a line-item key, or nil when the
// source never carried that item.
func (s *Statement) Series(key string) []decimal.NullDecimal {
	return s.Values[key]
}

// Latest returns the last period's value for a line-item key.
func (s *Statement) Latest(key string) decimal.NullDecimal {
	series := s.Values[key]
	if len(series) == 0 {
		return decimal.NullDecimal{}
	}
	return series[len(series)-1]
}

// MissingItemsError reports required line items absent from an import's
// header, all of them at once so the user fixes the file in one pass.
type MissingItemsError struct {
	Statement string
	Items     []string
}

func (e *MissingItemsError) Error() string {
	return fmt.Sprintf("statement %s: missing required items: %s",
		e.Statement, strings.Join(e.Items, ", "))
}

// FromTable maps a table onto the given layout. The table's column names
// carry the line-item headers, with the first column holding period
// labels; matching against item keys, labels, and aliases is
// case-insensitive. Rows are periods. Numeric cells pass through, text
// cells are coerced with ParseNumber, and anything else is a null point.
func FromTable(def Definition, tbl *table.Table) (*Statement, error) {
	cols := tbl.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("statement %s: table has no header", def.Key)
	}

	lookup := headerLookup(def)

	// Column index per item key, from the headers after the period column.
	found := make(map[string]int)
	for c := 1; c < len(cols); c++ {
		name := table.CleanField(cols[c])
		if key, ok := lookup[strings.ToLower(name)]; ok {
			if _, dup := found[key]; !dup {
				found[key] = c
			}
		}
	}

	var missing []string
	for _, item := range def.Items {
		if !item.Required {
			continue
		}
		if _, ok := found[item.Key]; !ok {
			missing = append(missing, item.Label)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingItemsError{Statement: def.Key, Items: missing}
	}

	st := &Statement{
		Definition: def,
		Values:     make(map[string][]decimal.NullDecimal, len(found)),
	}
	for r := 0; r < tbl.RowCount(); r++ {
		st.Periods = append(st.Periods, tbl.Cell(r, 0).String())
		for key, c := range found {
			st.Values[key] = append(st.Values[key], cellValue(tbl.Cell(r, c)))
		}
	}
	return st, nil
}

func headerLookup(def Definition) map[string]string {
	lookup := make(map[string]string)
	for _, item := range def.Items {
		lookup[strings.ToLower(item.Key)] = item.Key
		lookup[strings.ToLower(item.Label)] = item.Key
		for _, alias := range item.Aliases {
			lookup[strings.ToLower(alias)] = item.Key
		}
	}
	return lookup
}

func cellValue(c table.Cell) decimal.NullDecimal {
	switch c.Kind {
	case table.CellNumeric:
		return decimal.NullDecimal{Decimal: c.Number, Valid: true}
	case table.CellText:
		if d, ok := table.ParseNumber(c.Text); ok {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}
