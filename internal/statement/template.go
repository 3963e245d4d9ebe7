package statement

import (
	"io"

	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

// Template builds a header-only table for a layout: a period column
// followed by one column per line item, ready for users to fill in and
// import back.
func Template(def Definition) *table.Table {
	names := make([]string, 0, len(def.Items)+1)
	names = append(names, "Period")
	for _, item := range def.Items {
		names = append(names, item.Label)
	}

	tbl := table.New()
	tbl.SetColumns(names)
	return tbl
}

// WriteTemplate writes the layout's header-only CSV to w.
func WriteTemplate(def Definition, w io.Writer) error {
	return transcode.ExportWriter(w, Template(def), transcode.ExportOptions{Header: true})
}
