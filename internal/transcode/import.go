package transcode

// import.go reads a delimited text file into a destination grid.
//
// The import is all-or-nothing: records are buffered while the file parses
// and flushed to the destination only after the whole input has been read
// cleanly. A failure at any point, whether open, read, or parse, leaves
// the destination untouched.

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/ledgerport/ledgerport/internal/table"
)

// DefaultMaxFileSize caps import input at 100MB unless overridden.
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

// DefaultCheckInterval is how many records pass between context checks.
const DefaultCheckInterval = 100

// ImportOptions controls where and how records land in the destination.
type ImportOptions struct {
	// StartRow and StartCol are the 1-based insertion origin. Zero values
	// default to 1; negative values are rejected.
	StartRow int
	StartCol int

	// Header treats the first record as column names rather than data.
	// Names are reported in the result and handed to the destination when
	// it implements table.ColumnSetter. The first data record still lands
	// at StartRow.
	Header bool

	// MaxFileSize rejects larger inputs; zero means DefaultMaxFileSize.
	MaxFileSize int64

	// OnProgress, when set, is called periodically with bytes read and the
	// total input size (zero when unknown).
	OnProgress func(read, total int64)
}

// ImportResult describes a completed import.
type ImportResult struct {
	Rows      int      // data records written to the destination
	Columns   []string // header names, when Header was set
	BytesRead int64
}

// ImportFile reads the delimited file at path into dst. Open and read
// failures come back as *IOFailure, malformed text as *ParseError. The
// file handle is scoped to this call and released on every path.
func ImportFile(ctx context.Context, path string, dst table.Grid, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOFailure{Path: path, Err: err}
	}
	defer f.Close()

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	info, err := f.Stat()
	if err != nil {
		return nil, &IOFailure{Path: path, Err: err}
	}
	if info.Size() > maxSize {
		return nil, &IOFailure{Path: path, Err: ErrFileTooLarge}
	}

	res, err := ImportReader(ctx, f, info.Size(), dst, opts)
	if err != nil {
		// Raw read errors surface with the path attached; parse errors,
		// origin errors, and cancellation pass through unchanged.
		var pe *ParseError
		if errors.As(err, &pe) || errors.Is(err, ErrBadOrigin) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &IOFailure{Path: path, Err: err}
	}
	return res, nil
}

// ImportReader is ImportFile for an already-open stream. total is the
// input size in bytes for progress reporting, or zero when unknown.
func ImportReader(ctx context.Context, r io.Reader, total int64, dst table.Grid, opts ImportOptions) (*ImportResult, error) {
	startRow, startCol, err := normalizeOrigin(opts.StartRow, opts.StartCol)
	if err != nil {
		return nil, err
	}

	counting := WrapReader(r, total)
	sc := NewScanner(counting)

	var columns []table.Field
	var records [][]table.Field

	for n := 0; ; n++ {
		if n%DefaultCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if opts.OnProgress != nil {
				opts.OnProgress(counting.BytesRead, total)
			}
		}

		rec, err := sc.Scan()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if opts.Header && columns == nil && n == 0 {
			columns = rec
			continue
		}
		records = append(records, rec)
	}

	// The whole file parsed cleanly; commit to the destination.
	result := &ImportResult{BytesRead: counting.BytesRead}

	if columns != nil {
		result.Columns = make([]string, len(columns))
		for i, f := range columns {
			result.Columns[i] = f.Value
		}
		if cs, ok := dst.(table.ColumnSetter); ok {
			for i, f := range columns {
				if err := cs.SetColumn(startCol+i, f.Value); err != nil {
					return nil, err
				}
			}
		}
	}

	for i, rec := range records {
		for j, f := range rec {
			if err := dst.SetField(startRow+i, startCol+j, f); err != nil {
				return nil, err
			}
		}
	}
	result.Rows = len(records)

	if opts.OnProgress != nil {
		opts.OnProgress(counting.BytesRead, total)
	}
	return result, nil
}

// ImportOK is the boolean-compatible adapter for legacy-style callers that
// only care about success or failure.
func ImportOK(path string, dst table.Grid, opts ImportOptions) bool {
	_, err := ImportFile(context.Background(), path, dst, opts)
	return err == nil
}

func normalizeOrigin(row, col int) (int, int, error) {
	if row < 0 || col < 0 {
		return 0, 0, errNegativeOrigin(row, col)
	}
	if row == 0 {
		row = 1
	}
	if col == 0 {
		col = 1
	}
	return row, col, nil
}
