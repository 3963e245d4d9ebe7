// Package store persists named sheets between calls. The memory store
// backs single-process use; the postgres store is selected when a
// database is configured.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerport/ledgerport/internal/table"
)

// ErrSheetNotFound is returned by lookups and deletes for unknown names.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetMeta describes a stored sheet without its cells.
type SheetMeta struct {
	Name       string    `json:"name"`
	SourceFile string    `json:"source_file,omitempty"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Sheet is a stored table with its metadata.
type Sheet struct {
	Meta  SheetMeta
	Table *table.Table
}

// Store is the persistence surface for sheets. SaveSheet replaces any
// existing sheet of the same name. ListSheets orders by name.
type Store interface {
	SaveSheet(ctx context.Context, name, sourceFile string, tbl *table.Table) (SheetMeta, error)
	Sheet(ctx context.Context, name string) (*Sheet, error)
	ListSheets(ctx context.Context) ([]SheetMeta, error)
	DeleteSheet(ctx context.Context, name string) error
	Reset(ctx context.Context) error
	Close()
}
