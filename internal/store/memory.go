package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ledgerport/ledgerport/internal/table"
)

// MemoryStore keeps sheets in a mutex-guarded map. It is the default
// backend when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string]*Sheet
	now    func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string]*Sheet),
		now:    time.Now,
	}
}

func (s *MemoryStore) SaveSheet(_ context.Context, name, sourceFile string, tbl *table.Table) (SheetMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	meta := SheetMeta{
		Name:       name,
		SourceFile: sourceFile,
		Rows:       tbl.RowCount(),
		Columns:    tbl.Width(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if prev, ok := s.sheets[name]; ok {
		meta.CreatedAt = prev.Meta.CreatedAt
	}

	// Copy so later mutation of the caller's table cannot change what
	// was saved.
	s.sheets[name] = &Sheet{Meta: meta, Table: cloneTable(tbl)}
	return meta, nil
}

func (s *MemoryStore) Sheet(_ context.Context, name string) (*Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, ok := s.sheets[name]
	if !ok {
		return nil, ErrSheetNotFound
	}
	return &Sheet{Meta: sheet.Meta, Table: cloneTable(sheet.Table)}, nil
}

func (s *MemoryStore) ListSheets(_ context.Context) ([]SheetMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]SheetMeta, 0, len(s.sheets))
	for _, sheet := range s.sheets {
		metas = append(metas, sheet.Meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas, nil
}

func (s *MemoryStore) DeleteSheet(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sheets[name]; !ok {
		return ErrSheetNotFound
	}
	delete(s.sheets, name)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sheets = make(map[string]*Sheet)
	return nil
}

func (s *MemoryStore) Close() {}

func cloneTable(tbl *table.Table) *table.Table {
	out := table.New()
	if cols := tbl.Columns(); len(cols) > 0 {
		out.SetColumns(append([]string(nil), cols...))
	}
	for r := 0; r < tbl.RowCount(); r++ {
		out.AppendRow(tbl.Row(r)...)
	}
	return out
}
