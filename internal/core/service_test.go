package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerport/ledgerport/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMemoryStore(), ServiceOptions{
		MaxConcurrent: 2,
		MaxWait:       time.Second,
		StagingDir:    t.TempDir(),
	})
}

func TestServiceImportCompletes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	jobID, err := s.StartImport(ctx, ImportRequest{
		SheetName: "q1",
		FileName:  "revenue.csv",
		Data:      []byte("Period,Revenue\n2024-Q1,1000\n2024-Q2,1200\n"),
		Header:    true,
	})
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	result, err := s.Result(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.Error != "" {
		t.Fatalf("import failed: %s", result.Error)
	}
	if result.Rows != 2 {
		t.Errorf("Rows = %d, want 2", result.Rows)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "Period" {
		t.Errorf("Columns = %v, want [Period Revenue]", result.Columns)
	}

	progress, err := s.Job(jobID)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if progress.Phase != PhaseComplete {
		t.Errorf("Phase = %s, want complete", progress.Phase)
	}
	if progress.Percent() != 100 {
		t.Errorf("Percent() = %d, want 100", progress.Percent())
	}

	// The parsed table landed in the store under the sheet name.
	sheet, err := s.Store().Sheet(ctx, "q1")
	if err != nil {
		t.Fatalf("Sheet() error = %v", err)
	}
	if sheet.Meta.SourceFile != "revenue.csv" || sheet.Table.RowCount() != 2 {
		t.Errorf("stored sheet = %+v, %d rows", sheet.Meta, sheet.Table.RowCount())
	}
}

func TestServiceImportParseFailure(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	jobID, err := s.StartImport(ctx, ImportRequest{
		SheetName: "bad",
		Data:      []byte("a,b\nc\"d\n"),
	})
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	result, err := s.Result(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.Error == "" {
		t.Fatal("import with a bare quote succeeded, want failure")
	}
	if !strings.Contains(result.Error, "line 2") {
		t.Errorf("error %q does not locate the fault", result.Error)
	}

	progress, _ := s.Job(jobID)
	if progress.Phase != PhaseFailed {
		t.Errorf("Phase = %s, want failed", progress.Phase)
	}

	// Nothing committed.
	if _, err := s.Store().Sheet(ctx, "bad"); !errors.Is(err, store.ErrSheetNotFound) {
		t.Errorf("Sheet(bad) error = %v, want ErrSheetNotFound", err)
	}
}

func TestServiceImportValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.StartImport(ctx, ImportRequest{Data: []byte("a\n")}); err == nil {
		t.Error("StartImport() without a sheet name succeeded")
	}
	if _, err := s.StartImport(ctx, ImportRequest{SheetName: "x"}); err == nil {
		t.Error("StartImport() with no data succeeded")
	}
}

func TestServiceJobNotFound(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Job("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Job() error = %v, want ErrJobNotFound", err)
	}
	if _, err := s.Result(context.Background(), "nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Result() error = %v, want ErrJobNotFound", err)
	}
	if err := s.CancelJob("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("CancelJob() error = %v, want ErrJobNotFound", err)
	}
	if _, err := s.Subscribe("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Subscribe() error = %v, want ErrJobNotFound", err)
	}
}

func TestServiceSubscribeSeesTerminalPhase(t *testing.T) {
	s := newTestService(t)

	jobID, err := s.StartImport(context.Background(), ImportRequest{
		SheetName: "q1",
		Data:      []byte("1,2\n3,4\n"),
	})
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	ch, err := s.Subscribe(jobID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	var final ImportProgress
	timeout := time.After(5 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				if !final.Phase.Terminal() {
					t.Fatalf("channel closed before terminal phase, last = %s", final.Phase)
				}
				if final.Phase != PhaseComplete {
					t.Errorf("final phase = %s, want complete", final.Phase)
				}
				return
			}
			final = p
		case <-timeout:
			t.Fatal("no terminal progress update within timeout")
		}
	}
}

func TestServiceCancel(t *testing.T) {
	s := newTestService(t)

	// A large enough input that cancellation lands mid-parse is timing
	// dependent; cancelling before the goroutine starts is not. Either
	// way the job must end cancelled or complete without deadlocking.
	var sb strings.Builder
	for i := 0; i < 50000; i++ {
		sb.WriteString("alpha,beta,gamma,delta,100.25\n")
	}

	jobID, err := s.StartImport(context.Background(), ImportRequest{
		SheetName: "big",
		Data:      []byte(sb.String()),
	})
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}
	if err := s.CancelJob(jobID); err != nil {
		t.Fatalf("CancelJob() error = %v", err)
	}

	result, err := s.Result(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	progress, _ := s.Job(jobID)
	if !progress.Phase.Terminal() {
		t.Errorf("Phase = %s, want a terminal phase", progress.Phase)
	}
	if progress.Phase == PhaseCancelled && result.Error != "import cancelled" {
		t.Errorf("cancelled result error = %q", result.Error)
	}
}

func TestServiceLimiterReleased(t *testing.T) {
	s := newTestService(t)

	for i := 0; i < 5; i++ {
		jobID, err := s.StartImport(context.Background(), ImportRequest{
			SheetName: "sheet",
			Data:      []byte("a,b\n"),
		})
		if err != nil {
			t.Fatalf("StartImport() #%d error = %v", i, err)
		}
		if _, err := s.Result(context.Background(), jobID); err != nil {
			t.Fatalf("Result() #%d error = %v", i, err)
		}
	}

	if got := s.Limiter().ActiveCount(); got != 0 {
		t.Errorf("ActiveCount after imports = %d, want 0", got)
	}
}

func TestServiceJobsSorted(t *testing.T) {
	s := newTestService(t)

	var ids []string
	for _, name := range []string{"one", "two"} {
		id, err := s.StartImport(context.Background(), ImportRequest{
			SheetName: name,
			Data:      []byte("a\n"),
		})
		if err != nil {
			t.Fatalf("StartImport(%s) error = %v", name, err)
		}
		ids = append(ids, id)
		if _, err := s.Result(context.Background(), id); err != nil {
			t.Fatalf("Result(%s) error = %v", name, err)
		}
	}

	jobs := s.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("Jobs() returned %d, want 2", len(jobs))
	}
	if jobs[0].JobID != ids[0] || jobs[1].JobID != ids[1] {
		t.Errorf("Jobs() order = [%s %s], want start order", jobs[0].JobID, jobs[1].JobID)
	}
}

func TestJanitorPrunesFinishedJobs(t *testing.T) {
	s := newTestService(t)

	jobID, err := s.StartImport(context.Background(), ImportRequest{
		SheetName: "q1",
		Data:      []byte("a,b\n"),
	})
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}
	if _, err := s.Result(context.Background(), jobID); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	// Finished just now: a generous retention keeps it.
	if pruned := s.pruneFinishedJobs(time.Hour); pruned != 0 {
		t.Errorf("pruneFinishedJobs(1h) = %d, want 0", pruned)
	}

	// Zero retention prunes anything finished.
	if pruned := s.pruneFinishedJobs(0); pruned != 1 {
		t.Errorf("pruneFinishedJobs(0) = %d, want 1", pruned)
	}
	if _, err := s.Job(jobID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Job() after prune error = %v, want ErrJobNotFound", err)
	}
}
