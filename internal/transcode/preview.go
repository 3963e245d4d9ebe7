package transcode

// preview.go provides a read-only look at the first records of a file so
// callers can show its shape before committing an import.

import (
	"io"
)

// PreviewResult holds the first records of a delimited input.
type PreviewResult struct {
	Columns   []string   `json:"columns,omitempty"`
	Records   [][]string `json:"records"`
	RowsSeen  int        `json:"rows_seen"`
	Truncated bool       `json:"truncated"`
}

// Preview parses at most limit records from r using the import scanner.
// When header is set the first record is reported as column names instead
// of data. Truncated reports whether more input remained after the limit.
func Preview(r io.Reader, limit int, header bool) (*PreviewResult, error) {
	if limit <= 0 {
		limit = 10
	}

	sc := NewScanner(WrapReader(r, 0))
	res := &PreviewResult{Records: [][]string{}}

	for {
		rec, err := sc.Scan()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}

		values := make([]string, len(rec))
		for i, f := range rec {
			values[i] = f.Value
		}

		if header && res.Columns == nil && res.RowsSeen == 0 && len(res.Records) == 0 {
			res.Columns = values
			continue
		}

		if len(res.Records) >= limit {
			// Stop reading; the caller only wanted a look.
			res.Truncated = true
			return res, nil
		}
		res.Records = append(res.Records, values)
		res.RowsSeen++
	}
}
