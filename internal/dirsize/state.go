package dirsize

import (
	"context"
	"sync"
)

// runState is the mutable state shared by every goroutine of one run.
// The mutex also serializes hook invocations.
type runState struct {
	mu         sync.Mutex
	cfg        Config
	cancel     context.CancelCauseFunc
	cause      error
	dirCount   int64
	fileCount  int64
	errorCount int64
}

func newRunState(cfg Config, cancel context.CancelCauseFunc) *runState {
	return &runState{cfg: cfg, cancel: cancel}
}

// visit records a finalized directory holding files immediate files and
// reports the new totals.
func (s *runState) visit(files int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirCount++
	s.fileCount += files

	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(s.dirCount, s.fileCount)
	}
}

// fail applies the error policy to err. In skip mode the error is reported
// and nil is returned; in abort mode the run is cancelled and err returned.
func (s *runState) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.AbortOnError {
		if s.cause == nil {
			s.cause = err
			s.cancel(err)
		}

		return err
	}

	s.errorCount++

	if s.cfg.OnError != nil {
		s.cfg.OnError(err)
	}

	return nil
}

// aborted returns the error that aborted the run, if any.
func (s *runState) aborted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cause
}

func (s *runState) directoryStat(path string, size int64) {
	if s.cfg.OnDirectoryStat == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.OnDirectoryStat(path, size)
}

func (s *runState) fileStat(path string, size int64) {
	if s.cfg.OnFileStat == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.OnFileStat(path, size)
}

// counts returns a snapshot of the counters.
func (s *runState) counts() (dirs, files, errs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirCount, s.fileCount, s.errorCount
}
