// Package service orchestrates a reconciliation run: ingestion, matching,
// and the in-memory run store the API exposes.
//
// Runs live for the process lifetime only; there is deliberately no
// cross-session persistence.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/ingest"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/matcher"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// Summary holds the per-run counters shown to the reviewer.
type Summary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// Run is one completed reconciliation.
type Run struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Config    matcher.Config         `json:"config"`
	Results   []*record.MatchResult  `json:"results"`
	Errors    []ingest.DocumentError `json:"errors,omitempty"`
	Summary   Summary                `json:"summary"`
}

// ReconcileService runs reconciliations and keeps their results in memory.
type ReconcileService struct {
	pipeline *ingest.Pipeline
	logger   *slog.Logger

	runs      map[string]*Run
	runsMutex sync.RWMutex
}

// New creates a reconcile service.
func New(pipeline *ingest.Pipeline, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileService{
		pipeline: pipeline,
		logger:   logger,
		runs:     make(map[string]*Run),
	}
}

// Reconcile ingests the batch, matches, and stores the run. It requires at
// least one document per role; an empty side is a caller mistake worth
// rejecting before any parsing happens.
func (s *ReconcileService) Reconcile(ctx context.Context, docs []ingest.Document, cfg matcher.Config) (*Run, error) {
	var haveInvoices, haveMovements bool
	for _, d := range docs {
		switch d.Role {
		case ingest.RoleInvoice:
			haveInvoices = true
		case ingest.RoleMovement:
			haveMovements = true
		}
	}
	if !haveInvoices || !haveMovements {
		return nil, fmt.Errorf("need at least one invoice document and one statement document")
	}

	res := s.pipeline.Ingest(ctx, docs)

	s.logger.Info("batch ingested",
		"documents", len(docs),
		"invoices", len(res.Invoices),
		"movements", len(res.Movements),
		"document_errors", len(res.Errors),
	)

	results := matcher.New(cfg).Match(res.Invoices, res.Movements)

	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Config:    cfg,
		Results:   results,
		Errors:    res.Errors,
		Summary:   summarize(results),
	}

	s.logger.Info("run completed",
		"run_id", run.ID,
		"total", run.Summary.Total,
		"matched", run.Summary.Matched,
		"unmatched", run.Summary.Unmatched,
	)

	// Snapshot before the run becomes visible to concurrent toggles.
	snap := snapshotRun(run)

	s.runsMutex.Lock()
	s.runs[run.ID] = run
	s.runsMutex.Unlock()

	return snap, nil
}

// GetRun looks a run up by id. The returned run is a snapshot: callers can
// read and marshal it without holding the service lock while a concurrent
// toggle mutates the stored results.
func (s *ReconcileService) GetRun(id string) (*Run, bool) {
	s.runsMutex.RLock()
	defer s.runsMutex.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, false
	}
	return snapshotRun(run), true
}

// ToggleResult flips the matched flag of one result, the manual-override
// escape hatch. No tolerance re-validation happens. The returned result and
// summary are snapshots taken under the lock.
func (s *ReconcileService) ToggleResult(runID string, seq int) (*record.MatchResult, Summary, error) {
	s.runsMutex.Lock()
	defer s.runsMutex.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, Summary{}, fmt.Errorf("run %s not found", runID)
	}
	if seq < 1 || seq > len(run.Results) {
		return nil, Summary{}, fmt.Errorf("result %d not found in run %s", seq, runID)
	}

	run.Results[seq-1].Toggle()
	run.Summary = summarize(run.Results)

	r := *run.Results[seq-1]
	return &r, run.Summary, nil
}

// UnmatchedResults returns the flat list of unmatched results for export,
// snapshotted under the lock.
func (s *ReconcileService) UnmatchedResults(runID string) ([]*record.MatchResult, error) {
	s.runsMutex.RLock()
	defer s.runsMutex.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return copyResults(record.Unmatched(run.Results)), nil
}

// snapshotRun copies the run's mutable state (the per-result flags and the
// summary) so readers never share memory with a concurrent toggle. The
// movements themselves are immutable and stay shared.
func snapshotRun(run *Run) *Run {
	out := *run
	out.Results = copyResults(run.Results)
	return &out
}

func copyResults(results []*record.MatchResult) []*record.MatchResult {
	out := make([]*record.MatchResult, len(results))
	for i, r := range results {
		c := *r
		out[i] = &c
	}
	return out
}

func summarize(results []*record.MatchResult) Summary {
	sum := Summary{Total: len(results)}
	for _, r := range results {
		if r.Matched {
			sum.Matched++
		}
	}
	sum.Unmatched = sum.Total - sum.Matched
	return sum
}
