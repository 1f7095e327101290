// Package matcher pairs invoices with bank-statement movements.
//
// The algorithm is two-pass, greedy and first-fit:
//   - Pass 1 matches on identifier containment: a movement whose reference
//     contains the invoice identifier, or vice versa. When both amounts are
//     known they must also agree within AmountTolerance.
//   - Pass 2 matches the leftovers on amount within AmountTolerance; when
//     both sides carry a date, the dates must be within DayTolerance days.
//
// A movement consumed by one invoice is unavailable to every later invoice,
// so the assignment is a strict 1:1. Given identical input order the result
// is deterministic: ties break to the first unconsumed movement in input
// order. Greedy first-fit is not globally optimal; it is kept simple so a
// reviewer can explain every pairing.
//
// Example usage:
//
//	m := matcher.New(matcher.DefaultConfig())
//	results := m.Match(invoices, movements)
package matcher

import (
	"math"
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// Matcher runs the reconciliation algorithm with fixed tolerances.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Match produces one MatchResult per invoice, in input order. The consumed
// state is scratch local to this call; calling Match twice with the same
// inputs yields the same assignment.
func (m *Matcher) Match(invoices []record.Invoice, movements []record.Movement) []*record.MatchResult {
	results := make([]*record.MatchResult, len(invoices))
	for i, inv := range invoices {
		results[i] = &record.MatchResult{
			Seq:            i + 1,
			Identifier:     inv.Identifier,
			IssueDate:      inv.IssueDate,
			Amount:         inv.Amount,
			CounterpartyID: inv.CounterpartyID,
			Origin:         inv.Origin,
		}
	}

	// Movements with an empty reference fall back to their description for
	// the identifier scan. used is per-call scratch state.
	refs := make([]string, len(movements))
	for i := range movements {
		refs[i] = movements[i].Reference
		if refs[i] == "" {
			refs[i] = movements[i].Description
		}
	}
	used := make([]bool, len(movements))

	// Pass 1: identifier containment
	for _, r := range results {
		if r.Identifier == "" {
			continue
		}
		for j := range movements {
			if used[j] || refs[j] == "" {
				continue
			}
			if !strings.Contains(refs[j], r.Identifier) && !strings.Contains(r.Identifier, refs[j]) {
				continue
			}
			// When either amount is unknown the identifier match stands alone
			if !math.IsNaN(r.Amount) && !math.IsNaN(movements[j].Amount) {
				if math.Abs(r.Amount-movements[j].Amount) > m.config.AmountTolerance {
					continue
				}
			}
			r.Matched = true
			r.Movement = &movements[j]
			used[j] = true
			break
		}
	}

	// Pass 2: amount within tolerance, date within tolerance when both known
	for _, r := range results {
		if r.Matched || math.IsNaN(r.Amount) {
			continue
		}
		for j := range movements {
			if used[j] || math.IsNaN(movements[j].Amount) {
				continue
			}
			if math.Abs(r.Amount-movements[j].Amount) > m.config.AmountTolerance {
				continue
			}
			if !r.IssueDate.IsZero() && !movements[j].Date.IsZero() {
				if normalize.DaysBetween(r.IssueDate, movements[j].Date) > m.config.DayTolerance {
					continue
				}
			}
			r.Matched = true
			r.Movement = &movements[j]
			used[j] = true
			break
		}
	}

	return results
}
