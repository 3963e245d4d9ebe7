package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerport/ledgerport/internal/logging"
	"github.com/ledgerport/ledgerport/internal/store"
	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

// ImportTimeout is the maximum duration for an import job.
var ImportTimeout = 10 * time.Minute

// ErrJobNotFound is returned for lookups of unknown or pruned job IDs.
var ErrJobNotFound = errors.New("import job not found")

// Service runs import jobs against a sheet store.
type Service struct {
	store      store.Store
	limiter    *ImportLimiter
	stagingDir string

	mu   sync.RWMutex
	jobs map[string]*activeJob
}

type activeJob struct {
	ID      string
	Started time.Time
	Cancel  context.CancelFunc
	Done    chan struct{}

	mu         sync.Mutex
	progress   ImportProgress
	result     *ImportResult
	finishedAt time.Time
	listeners  []chan ImportProgress
}

// ServiceOptions tunes a Service; zero values take defaults.
type ServiceOptions struct {
	MaxConcurrent int           // parallel import slots
	MaxWait       time.Duration // slot wait before ErrTooManyImports
	StagingDir    string        // temp-file directory; empty means os.TempDir
}

// NewService creates an import service persisting to st.
func NewService(st store.Store, opts ServiceOptions) *Service {
	return &Service{
		store:      st,
		limiter:    NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		stagingDir: opts.StagingDir,
		jobs:       make(map[string]*activeJob),
	}
}

// Store exposes the underlying sheet store for read-side handlers.
func (s *Service) Store() store.Store {
	return s.store
}

// Limiter exposes the concurrency limiter for monitoring and shutdown.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// StartImport acquires an import slot, stages the request's bytes to a
// temp file, and starts a background job. The job ID is returned
// immediately; follow it with Subscribe, Job, or Result.
func (s *Service) StartImport(ctx context.Context, req ImportRequest) (string, error) {
	if req.SheetName == "" {
		return "", errors.New("sheet name is required")
	}
	if len(req.Data) == 0 {
		return "", errors.New("empty file")
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	jobID := uuid.New().String()
	staged, err := s.stage(req.Data)
	if err != nil {
		s.limiter.Release()
		return "", err
	}

	jobCtx, cancel := context.WithTimeout(context.Background(), ImportTimeout)
	job := &activeJob{
		ID:      jobID,
		Started: time.Now(),
		Cancel:  cancel,
		Done:    make(chan struct{}),
		progress: ImportProgress{
			JobID:      jobID,
			SheetName:  req.SheetName,
			FileName:   req.FileName,
			Phase:      PhaseStarting,
			BytesTotal: int64(len(req.Data)),
		},
	}

	s.mu.Lock()
	s.jobs[jobID] = job
	s.mu.Unlock()

	go s.processImport(jobCtx, job, req, staged)

	return jobID, nil
}

// stage writes the upload to a temp file so the background job reads from
// disk rather than holding the request body.
func (s *Service) stage(data []byte) (string, error) {
	f, err := os.CreateTemp(s.stagingDir, "import-*.csv")
	if err != nil {
		return "", fmt.Errorf("stage import: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("stage import: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage import: %w", err)
	}
	return f.Name(), nil
}

func (s *Service) processImport(ctx context.Context, job *activeJob, req ImportRequest, staged string) {
	defer s.limiter.Release()
	defer job.Cancel()
	defer os.Remove(staged)

	logger := logging.WithFields(ctx, "job_id", job.ID, "sheet", req.SheetName)
	logger.Info("import started", "file", req.FileName, "bytes", len(req.Data))

	start := time.Now()
	result := &ImportResult{
		JobID:     job.ID,
		SheetName: req.SheetName,
		FileName:  req.FileName,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Error = fmt.Sprintf("import panic: %v", r)
				job.update(func(p *ImportProgress) {
					p.Phase = PhaseFailed
					p.Error = result.Error
				})
			}
		}()
		s.runImport(ctx, job, req, staged, result)
	}()

	result.Duration = time.Since(start)

	if result.Error != "" {
		logger.Warn("import finished", "duration", result.Duration, "error", result.Error)
	} else {
		logger.Info("import finished", "duration", result.Duration, "rows", result.Rows)
	}

	job.mu.Lock()
	job.result = result
	job.finishedAt = time.Now()
	job.mu.Unlock()

	job.notifyProgress()
	job.closeListeners()
	close(job.Done)
}

func (s *Service) runImport(ctx context.Context, job *activeJob, req ImportRequest, staged string, result *ImportResult) {
	job.update(func(p *ImportProgress) { p.Phase = PhaseReading })
	job.notifyProgress()

	dst := table.New()
	opts := transcode.ImportOptions{
		StartRow: req.StartRow,
		StartCol: req.StartCol,
		Header:   req.Header,
		OnProgress: func(read, total int64) {
			job.update(func(p *ImportProgress) {
				p.BytesRead = read
				if total > 0 {
					p.BytesTotal = total
				}
			})
			job.notifyProgress()
		},
	}

	parsed, err := transcode.ImportFile(ctx, staged, dst, opts)
	if err != nil {
		s.failImport(job, result, err)
		return
	}

	job.update(func(p *ImportProgress) {
		p.Phase = PhaseParsing
		p.BytesRead = parsed.BytesRead
		p.Rows = parsed.Rows
	})
	job.notifyProgress()

	job.update(func(p *ImportProgress) { p.Phase = PhaseCommitting })
	job.notifyProgress()

	if _, err := s.store.SaveSheet(ctx, req.SheetName, req.FileName, dst); err != nil {
		s.failImport(job, result, err)
		return
	}

	result.Rows = parsed.Rows
	result.Columns = parsed.Columns
	job.update(func(p *ImportProgress) { p.Phase = PhaseComplete })
}

// failImport records a terminal error phase, distinguishing caller
// cancellation from genuine failure.
func (s *Service) failImport(job *activeJob, result *ImportResult, err error) {
	if errors.Is(err, context.Canceled) {
		result.Error = "import cancelled"
		job.update(func(p *ImportProgress) {
			p.Phase = PhaseCancelled
			p.Error = result.Error
		})
		return
	}
	result.Error = err.Error()
	job.update(func(p *ImportProgress) {
		p.Phase = PhaseFailed
		p.Error = result.Error
	})
}

// Job returns the current progress of a job without blocking.
func (s *Service) Job(jobID string) (ImportProgress, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return ImportProgress{}, ErrJobNotFound
	}
	return job.snapshot(), nil
}

// Jobs returns the progress of every tracked job, oldest first.
func (s *Service) Jobs() []ImportProgress {
	s.mu.RLock()
	jobs := make([]*activeJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Started.Before(jobs[j].Started) })

	out := make([]ImportProgress, len(jobs))
	for i, job := range jobs {
		out[i] = job.snapshot()
	}
	return out
}

// CancelJob cancels an in-progress import.
func (s *Service) CancelJob(jobID string) error {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return ErrJobNotFound
	}
	job.Cancel()
	return nil
}

// Result blocks until the job completes and returns its outcome, or
// returns the context error if ctx ends first.
func (s *Service) Result(ctx context.Context, jobID string) (*ImportResult, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrJobNotFound
	}

	select {
	case <-job.Done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	return job.result, nil
}

// Subscribe returns a channel receiving progress updates for a job. The
// channel is buffered; slow consumers miss intermediate updates rather
// than blocking the import. It is closed when the job finishes.
func (s *Service) Subscribe(jobID string) (<-chan ImportProgress, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrJobNotFound
	}

	ch := make(chan ImportProgress, 10)

	job.mu.Lock()
	done := job.progress.Phase.Terminal() && job.result != nil
	// Send the current state immediately so subscribers never start blind.
	select {
	case ch <- job.progress:
	default:
	}
	if done {
		close(ch)
	} else {
		job.listeners = append(job.listeners, ch)
	}
	job.mu.Unlock()

	return ch, nil
}

func (job *activeJob) update(fn func(*ImportProgress)) {
	job.mu.Lock()
	fn(&job.progress)
	job.mu.Unlock()
}

func (job *activeJob) snapshot() ImportProgress {
	job.mu.Lock()
	defer job.mu.Unlock()
	return job.progress
}

// notifyProgress sends the current progress to all listeners. Full
// listener buffers are skipped.
func (job *activeJob) notifyProgress() {
	job.mu.Lock()
	defer job.mu.Unlock()

	for _, ch := range job.listeners {
		select {
		case ch <- job.progress:
		default:
		}
	}
}

func (job *activeJob) closeListeners() {
	job.mu.Lock()
	defer job.mu.Unlock()

	for _, ch := range job.listeners {
		close(ch)
	}
	job.listeners = nil
}
