package dto

import (
	"time"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/ingest"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/service"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/matcher"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// RunResponse is a reconciliation run as returned by the API. Results may be
// narrowed by a filter; the summary always covers the full run.
type RunResponse struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Config    matcher.Config         `json:"config"`
	Summary   service.Summary        `json:"summary"`
	Results   []*record.MatchResult  `json:"results"`
	Errors    []ingest.DocumentError `json:"errors,omitempty"`
}

// NewRunResponse converts a run, keeping only the results the filter admits.
// Valid filters are "all" (or empty), "matched" and "unmatched".
func NewRunResponse(run *service.Run, filter string) (RunResponse, bool) {
	resp := RunResponse{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Config:    run.Config,
		Summary:   run.Summary,
		Errors:    run.Errors,
	}

	switch filter {
	case "", "all":
		resp.Results = run.Results
	case "matched":
		resp.Results = make([]*record.MatchResult, 0)
		for _, r := range run.Results {
			if r.Matched {
				resp.Results = append(resp.Results, r)
			}
		}
	case "unmatched":
		resp.Results = record.Unmatched(run.Results)
		if resp.Results == nil {
			resp.Results = make([]*record.MatchResult, 0)
		}
	default:
		return RunResponse{}, false
	}
	return resp, true
}

// ToggleResponse is returned after a manual match override.
type ToggleResponse struct {
	Result  *record.MatchResult `json:"result"`
	Summary service.Summary     `json:"summary"`
}
