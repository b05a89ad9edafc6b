// Package session holds the caller-side state around analysis runs: which
// inputs are loaded, whether a run is in progress, and its outcome.
package session

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"

	"linkscout/internal/analysis"
	"linkscout/internal/logger"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// State is a point-in-time copy of a Session.
type State struct {
	Status        Status
	RunID         string
	HasEmbeddings bool
	HasLinks      bool
	Report        *analysis.Report
	Err           error
}

// Session sequences "load inputs -> run -> inspect outcome". It is safe for
// concurrent use; State can be polled while Start is running.
type Session struct {
	mu         sync.Mutex
	log        *logger.Logger
	opts       analysis.Options
	embeddings []byte
	links      []byte
	status     Status
	runID      string
	report     *analysis.Report
	err        error
	gen        uint64 // bumped whenever inputs change, so stale runs are discarded
}

// New returns an idle session that will analyse with opts.
func New(log *logger.Logger, opts analysis.Options) *Session {
	return &Session{log: log, opts: opts, status: StatusIdle}
}

// SetEmbeddings replaces the embeddings input and clears any previous outcome.
func (s *Session) SetEmbeddings(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings = data
	s.clearLocked()
}

// SetLinks replaces the internal links input and clears any previous outcome.
func (s *Session) SetLinks(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = data
	s.clearLocked()
}

// Reset drops inputs and outcome.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings = nil
	s.links = nil
	s.clearLocked()
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Status:        s.status,
		RunID:         s.runID,
		HasEmbeddings: s.embeddings != nil,
		HasLinks:      s.links != nil,
		Report:        s.report,
		Err:           s.err,
	}
}

// Start runs the analysis over the loaded inputs. Both inputs must be set.
// The session moves to processing before the run and to success or error
// after it; if the inputs change meanwhile the outcome is discarded.
func (s *Session) Start(ctx context.Context) (*analysis.Report, error) {
	s.mu.Lock()
	if s.status == StatusProcessing {
		s.mu.Unlock()
		return nil, &analysis.ValidationError{Msg: "an analysis is already in progress"}
	}
	if s.embeddings == nil || s.links == nil {
		err := &analysis.ValidationError{Msg: "Both files must be uploaded."}
		s.status = StatusError
		s.report = nil
		s.err = err
		s.mu.Unlock()
		s.log.Error("missing files", "error", err)
		return nil, err
	}
	embeddings, links, gen := s.embeddings, s.links, s.gen
	runID := uuid.NewString()
	s.status = StatusProcessing
	s.runID = runID
	s.report = nil
	s.err = nil
	s.mu.Unlock()

	log := s.log.With("run_id", runID)
	log.Info("analysis started", "top_n", s.opts.TopN, "workers", s.opts.Workers)

	report, err := analysis.Run(ctx, bytes.NewReader(embeddings), bytes.NewReader(links), s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		log.Warn("inputs changed during analysis, discarding outcome")
		if err != nil {
			return nil, err
		}
		return report, nil
	}
	if err != nil {
		s.status = StatusError
		s.err = err
		log.Error("analysis failed", "error", err)
		return nil, err
	}
	s.status = StatusSuccess
	s.report = report
	log.Info("analysis complete",
		"active_links", report.Stats.ActiveLinks,
		"total_pairs", report.Stats.TotalPairs,
		"skipped_embeddings", report.SkippedEmbeddings)
	return report, nil
}

func (s *Session) clearLocked() {
	s.gen++
	s.status = StatusIdle
	s.runID = ""
	s.report = nil
	s.err = nil
}
