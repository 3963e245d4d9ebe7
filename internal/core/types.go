// Package core orchestrates asynchronous sheet imports: staging uploaded
// bytes, running the transcoder in the background, publishing progress,
// and committing the parsed table to the store.
package core

import "time"

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseStarting   ImportPhase = "starting"
	PhaseReading    ImportPhase = "reading"
	PhaseParsing    ImportPhase = "parsing"
	PhaseCommitting ImportPhase = "committing"
	PhaseComplete   ImportPhase = "complete"
	PhaseFailed     ImportPhase = "failed"
	PhaseCancelled  ImportPhase = "cancelled"
)

// Terminal reports whether the phase is final.
func (p ImportPhase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed || p == PhaseCancelled
}

// ImportRequest describes one sheet import.
type ImportRequest struct {
	SheetName string // store key the parsed table is saved under
	FileName  string // original upload name, for reporting only
	Data      []byte // raw delimited text
	Header    bool   // first record carries column names
	StartRow  int    // 1-based insertion origin; zero means 1
	StartCol  int
}

// ImportProgress is the externally visible state of a running import.
type ImportProgress struct {
	JobID      string      `json:"job_id"`
	SheetName  string      `json:"sheet_name"`
	FileName   string      `json:"file_name,omitempty"`
	Phase      ImportPhase `json:"phase"`
	BytesRead  int64       `json:"bytes_read"`
	BytesTotal int64       `json:"bytes_total"`
	Rows       int         `json:"rows"`
	Error      string      `json:"error,omitempty"` // set when Phase is failed
}

// Percent returns byte-based progress in the 0-100 range. A completed
// import reports 100 regardless of byte counts.
func (p ImportProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.BytesTotal > 0 {
		return int((p.BytesRead * 100) / p.BytesTotal)
	}
	return 0
}

// ImportResult is the final outcome of an import job.
type ImportResult struct {
	JobID     string        `json:"job_id"`
	SheetName string        `json:"sheet_name"`
	FileName  string        `json:"file_name,omitempty"`
	Rows      int           `json:"rows"`
	Columns   []string      `json:"columns,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Error     string        `json:"error,omitempty"`
}
