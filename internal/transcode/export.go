package transcode

// export.go writes a table to a delimited text file, one line per row,
// with no trailing blank line beyond the final record.
//
// Field encoding is applied per cell: numeric cells emit their plain
// decimal representation unquoted, text cells are always quoted with
// interior quotes doubled, and empty cells emit nothing between
// delimiters. The always-quote rule is what lets a re-import tell the
// text "42.5" from the number 42.5.

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ledgerport/ledgerport/internal/table"
)

// ExportOptions controls what the exporter writes.
type ExportOptions struct {
	// Header writes the table's column names as the first line when the
	// table carries any. Names are encoded as quoted text fields.
	Header bool
}

// ExportFile writes tbl to the file at path, replacing any existing file.
// All failures (create, write, flush, close) come back as *IOFailure,
// and the handle is released on every path.
func ExportFile(tbl *table.Table, path string, opts ExportOptions) (err error) {
	f, cerr := os.Create(path)
	if cerr != nil {
		return &IOFailure{Path: path, Err: cerr}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &IOFailure{Path: path, Err: closeErr}
		}
	}()

	if werr := ExportWriter(f, tbl, opts); werr != nil {
		return &IOFailure{Path: path, Err: werr}
	}
	return nil
}

// ExportWriter writes tbl to w in the same format as ExportFile.
func ExportWriter(w io.Writer, tbl *table.Table, opts ExportOptions) error {
	bw := bufio.NewWriter(w)

	if opts.Header {
		if names := tbl.Columns(); len(names) > 0 {
			for i, name := range names {
				if i > 0 {
					if err := bw.WriteByte(','); err != nil {
						return err
					}
				}
				if err := writeQuoted(bw, name); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	for r := 0; r < tbl.RowCount(); r++ {
		row := tbl.Row(r)
		for c, cell := range row {
			if c > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if err := writeCell(bw, cell); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ExportOK is the boolean-compatible adapter for legacy-style callers.
func ExportOK(tbl *table.Table, path string, opts ExportOptions) bool {
	return ExportFile(tbl, path, opts) == nil
}

func writeCell(bw *bufio.Writer, c table.Cell) error {
	switch c.Kind {
	case table.CellNumeric:
		_, err := bw.WriteString(c.Number.String())
		return err
	case table.CellText:
		return writeQuoted(bw, c.Text)
	default:
		// Empty cell: nothing between delimiters.
		return nil
	}
}

// writeQuoted emits s enclosed in double quotes with interior quotes
// doubled.
func writeQuoted(bw *bufio.Writer, s string) error {
	if err := bw.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			if _, err := bw.WriteString(s[start : i+1]); err != nil {
				return err
			}
			if err := bw.WriteByte('"'); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if start < len(s) {
		if _, err := bw.WriteString(s[start:]); err != nil {
			return err
		}
	}
	return bw.WriteByte('"')
}

// Encode renders a whole table to a string, mainly for tests and previews.
func Encode(tbl *table.Table, opts ExportOptions) string {
	var b strings.Builder
	_ = ExportWriter(&b, tbl, opts)
	return b.String()
}
