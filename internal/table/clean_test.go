package table

import "testing"

// ----------------------------------------------------------------------------
// DropEmptyRows Tests
// ----------------------------------------------------------------------------

func TestDropEmptyRows(t *testing.T) {
	tbl := New()
	tbl.AppendRow(Numeric(num("1")), Text("a"))
	tbl.AppendRow(Empty(), Empty())
	tbl.AppendRow(Numeric(num("2")), Text("b"))
	tbl.AppendRow(Empty(), Empty())

	if got := tbl.DropEmptyRows(); got != 2 {
		t.Fatalf("DropEmptyRows() = %d, want 2", got)
	}
	if got := tbl.RowCount(); got != 2 {
		t.Fatalf("RowCount() = %d, want 2", got)
	}
	if got := tbl.Cell(1, 1); !got.Equal(Text("b")) {
		t.Errorf("Cell(1, 1) = %#v, want %q", got, "b")
	}
}

func TestDropEmptyRowsKeepsPartialRows(t *testing.T) {
	tbl := New()
	tbl.AppendRow(Empty(), Text("only one value"))

	if got := tbl.DropEmptyRows(); got != 0 {
		t.Errorf("DropEmptyRows() = %d, want 0", got)
	}
	if got := tbl.RowCount(); got != 1 {
		t.Errorf("RowCount() = %d, want 1", got)
	}
}

// ----------------------------------------------------------------------------
// FillMedian Tests
// ----------------------------------------------------------------------------

func TestFillMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []Cell
		want   string // expected value of the filled cell
	}{
		{
			name:   "odd count takes middle value",
			values: []Cell{Numeric(num("10")), Numeric(num("30")), Numeric(num("20")), Empty()},
			want:   "20",
		},
		{
			name:   "even count takes mean of middle values",
			values: []Cell{Numeric(num("10")), Numeric(num("20")), Numeric(num("30")), Numeric(num("40")), Empty()},
			want:   "25",
		},
		{
			name:   "single value",
			values: []Cell{Numeric(num("7.5")), Empty()},
			want:   "7.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New()
			for _, c := range tt.values {
				tbl.AppendRow(c)
			}
			if err := tbl.FillMedian(0); err != nil {
				t.Fatalf("FillMedian(0) error: %v", err)
			}
			got := tbl.Cell(tbl.RowCount()-1, 0)
			if !got.Equal(Numeric(num(tt.want))) {
				t.Errorf("filled cell = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestFillMedianLeavesTextAlone(t *testing.T) {
	tbl := New()
	tbl.AppendRow(Numeric(num("1")))
	tbl.AppendRow(Text("n/a"))
	tbl.AppendRow(Empty())

	if err := tbl.FillMedian(0); err != nil {
		t.Fatalf("FillMedian(0) error: %v", err)
	}
	if got := tbl.Cell(1, 0); !got.Equal(Text("n/a")) {
		t.Errorf("text cell rewritten to %#v", got)
	}
	if got := tbl.Cell(2, 0); !got.Equal(Numeric(num("1"))) {
		t.Errorf("empty cell = %#v, want 1", got)
	}
}

func TestFillMedianErrors(t *testing.T) {
	tbl := New()
	tbl.AppendRow(Text("a"), Empty())

	if err := tbl.FillMedian(5); err == nil {
		t.Error("FillMedian(5) on 2-column table succeeded, want error")
	}
	if err := tbl.FillMedian(0); err == nil {
		t.Error("FillMedian on column with no numeric cells succeeded, want error")
	}
}

// ----------------------------------------------------------------------------
// Deduplicate Tests
// ----------------------------------------------------------------------------

func TestDeduplicate(t *testing.T) {
	tbl := New()
	tbl.AppendRow(Numeric(num("1")), Text("a"))
	tbl.AppendRow(Numeric(num("2")), Text("b"))
	tbl.AppendRow(Numeric(num("1")), Text("a"))
	tbl.AppendRow(Numeric(num("1")), Text("a"))

	if got := tbl.Deduplicate(); got != 2 {
		t.Fatalf("Deduplicate() = %d, want 2", got)
	}
	if got := tbl.RowCount(); got != 2 {
		t.Fatalf("RowCount() = %d, want 2", got)
	}
	// First occurrence order is preserved.
	if got := tbl.Cell(0, 1); !got.Equal(Text("a")) {
		t.Errorf("Cell(0, 1) = %#v, want %q", got, "a")
	}
	if got := tbl.Cell(1, 1); !got.Equal(Text("b")) {
		t.Errorf("Cell(1, 1) = %#v, want %q", got, "b")
	}
}

func TestDeduplicateKindSensitive(t *testing.T) {
	// The text "42.5" and the number 42.5 render identically but are
	// different rows.
	tbl := New()
	tbl.AppendRow(Numeric(num("42.5")))
	tbl.AppendRow(Text("42.5"))

	if got := tbl.Deduplicate(); got != 0 {
		t.Errorf("Deduplicate() = %d, want 0", got)
	}
	if got := tbl.RowCount(); got != 2 {
		t.Errorf("RowCount() = %d, want 2", got)
	}
}
