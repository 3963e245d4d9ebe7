package store

import (
	"encoding/json"
	"fmt"

	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/shopspring/decimal"
)

// JSONB document shape for a stored sheet. Numbers are carried as
// strings so decimal exactness survives the trip through Postgres.
type sheetDoc struct {
	Columns []string    `json:"columns,omitempty"`
	Rows    [][]cellDoc `json:"rows"`
}

type cellDoc struct {
	Kind  string `json:"k"` // "n" numeric, "t" text, "e" empty
	Value string `json:"v,omitempty"`
}

func encodeTable(tbl *table.Table) ([]byte, error) {
	doc := sheetDoc{
		Columns: tbl.Columns(),
		Rows:    make([][]cellDoc, tbl.RowCount()),
	}
	for r := 0; r < tbl.RowCount(); r++ {
		row := tbl.Row(r)
		cells := make([]cellDoc, len(row))
		for c, cell := range row {
			switch cell.Kind {
			case table.CellNumeric:
				cells[c] = cellDoc{Kind: "n", Value: cell.Number.String()}
			case table.CellText:
				cells[c] = cellDoc{Kind: "t", Value: cell.Text}
			default:
				cells[c] = cellDoc{Kind: "e"}
			}
		}
		doc.Rows[r] = cells
	}
	return json.Marshal(doc)
}

func decodeTable(data []byte) (*table.Table, error) {
	var doc sheetDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sheet: %w", err)
	}

	tbl := table.New()
	if len(doc.Columns) > 0 {
		tbl.SetColumns(doc.Columns)
	}
	for r, row := range doc.Rows {
		cells := make([]table.Cell, len(row))
		for c, cd := range row {
			switch cd.Kind {
			case "n":
				d, err := decimal.NewFromString(cd.Value)
				if err != nil {
					return nil, fmt.Errorf("decode sheet: row %d col %d: %w", r+1, c+1, err)
				}
				cells[c] = table.Numeric(d)
			case "t":
				cells[c] = table.Text(cd.Value)
			default:
				cells[c] = table.Empty()
			}
		}
		tbl.AppendRow(cells...)
	}
	return tbl, nil
}
