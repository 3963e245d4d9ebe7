package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DropEmptyRows removes rows whose cells are all empty and reports how many
// were dropped.
func (t *Table) DropEmptyRows() int {
	kept := t.rows[:0]
	dropped := 0
	for _, row := range t.rows {
		if rowEmpty(row) {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return dropped
}

func rowEmpty(row Row) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// FillMedian replaces empty cells in the given column (0-based) with the
// median of the column's numeric cells. The median of an even count is the
// mean of the two middle values. Text cells are left alone.
func (t *Table) FillMedian(col int) error {
	if col < 0 || col >= t.width {
		return fmt.Errorf("table: no column %d", col)
	}

	var values []decimal.Decimal
	for _, row := range t.rows {
		if row[col].Kind == CellNumeric {
			values = append(values, row[col].Number)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("table: column %d has no numeric cells", col)
	}

	m := median(values)
	for i := range t.rows {
		if t.rows[i][col].IsEmpty() {
			t.rows[i][col] = Numeric(m)
		}
	}
	return nil
}

func median(values []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	two := decimal.NewFromInt(2)
	return sorted[mid-1].Add(sorted[mid]).Div(two)
}

// Deduplicate removes exact duplicate rows, keeping the first occurrence,
// and reports how many were removed. Two rows are duplicates when every
// cell matches in kind and value.
func (t *Table) Deduplicate() int {
	seen := make(map[string]struct{}, len(t.rows))
	kept := t.rows[:0]
	removed := 0
	for _, row := range t.rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.rows = kept
	return removed
}

// rowKey builds a map key that distinguishes the text "42.5" from the
// number 42.5.
func rowKey(row Row) string {
	var b strings.Builder
	for _, c := range row {
		switch c.Kind {
		case CellNumeric:
			b.WriteByte('n')
			b.WriteString(c.Number.String())
		case CellText:
			b.WriteByte('t')
			b.WriteString(c.Text)
		default:
			b.WriteByte('e')
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
