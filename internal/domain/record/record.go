// Package record defines the canonical entity types produced by the source
// parsers and consumed by the matcher.
//
// Invoices and Movements are created once per ingestion run and are immutable
// afterwards; matching only marks movements as consumed and never touches
// their fields. Duplicates are legal and processed independently.
package record

import (
	"encoding/json"
	"math"
	"time"
)

// Origin tags an invoice with the kind of source it was parsed from.
// Informational only; the matcher ignores it.
type Origin string

const (
	OriginTabular    Origin = "csv"
	OriginStructured Origin = "xml"
	OriginFreeText   Origin = "pdf"
)

// Invoice is a billed document to be reconciled.
type Invoice struct {
	// Identifier is the fiscal UUID when present, otherwise a series+folio
	// composite, otherwise empty. Never padded with whitespace.
	Identifier string

	// IssueDate is zero when the source carried no parseable date.
	IssueDate time.Time

	// Amount is NaN when the source carried no parseable amount.
	Amount float64

	// CounterpartyID is the recipient tax identifier (RFC), empty if unknown.
	CounterpartyID string

	Origin Origin
}

// Movement is a single line item from a bank statement or ledger-like source.
type Movement struct {
	Reference   string
	Date        time.Time // zero when absent
	Amount      float64   // signed; NaN when unparseable
	Description string
}

// MarshalJSON renders absent fields as null: an unparseable amount (NaN is
// not representable in JSON) and a zero date both become null, and the date
// is otherwise rendered as plain YYYY-MM-DD.
func (m Movement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Reference   string   `json:"reference"`
		Date        *string  `json:"date"`
		Amount      *float64 `json:"amount"`
		Description string   `json:"description"`
	}{
		Reference:   m.Reference,
		Date:        jsonDate(m.Date),
		Amount:      jsonAmount(m.Amount),
		Description: m.Description,
	})
}

// MatchResult is the per-invoice outcome of a matching run. There is exactly
// one per input invoice, in input order.
type MatchResult struct {
	// Seq is the 1-based position of the invoice in the input list.
	Seq int `json:"seq"`

	Identifier     string    `json:"identifier"`
	IssueDate      time.Time `json:"issue_date"`
	Amount         float64   `json:"amount"`
	CounterpartyID string    `json:"counterparty_id"`
	Origin         Origin    `json:"origin"`

	Matched bool `json:"matched"`

	// Movement is a shared back-reference to the consumed movement, nil when
	// the matcher never paired this invoice. It survives manual toggles so a
	// reviewer can flip back and forth without losing the pairing. The
	// movement itself is never mutated.
	Movement *Movement `json:"movement,omitempty"`
}

// MarshalJSON applies the same null conventions as Movement.MarshalJSON.
func (r *MatchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Seq            int       `json:"seq"`
		Identifier     string    `json:"identifier"`
		IssueDate      *string   `json:"issue_date"`
		Amount         *float64  `json:"amount"`
		CounterpartyID string    `json:"counterparty_id"`
		Origin         Origin    `json:"origin"`
		Matched        bool      `json:"matched"`
		Movement       *Movement `json:"movement,omitempty"`
	}{
		Seq:            r.Seq,
		Identifier:     r.Identifier,
		IssueDate:      jsonDate(r.IssueDate),
		Amount:         jsonAmount(r.Amount),
		CounterpartyID: r.CounterpartyID,
		Origin:         r.Origin,
		Matched:        r.Matched,
		Movement:       r.Movement,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON: null dates become the zero
// time and null amounts become NaN.
func (r *MatchResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		Seq            int       `json:"seq"`
		Identifier     string    `json:"identifier"`
		IssueDate      *string   `json:"issue_date"`
		Amount         *float64  `json:"amount"`
		CounterpartyID string    `json:"counterparty_id"`
		Origin         Origin    `json:"origin"`
		Matched        bool      `json:"matched"`
		Movement       *Movement `json:"movement"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	issueDate, err := fromJSONDate(aux.IssueDate)
	if err != nil {
		return err
	}

	*r = MatchResult{
		Seq:            aux.Seq,
		Identifier:     aux.Identifier,
		IssueDate:      issueDate,
		Amount:         fromJSONAmount(aux.Amount),
		CounterpartyID: aux.CounterpartyID,
		Origin:         aux.Origin,
		Matched:        aux.Matched,
		Movement:       aux.Movement,
	}
	return nil
}

// UnmarshalJSON is the inverse of Movement.MarshalJSON.
func (m *Movement) UnmarshalJSON(data []byte) error {
	var aux struct {
		Reference   string   `json:"reference"`
		Date        *string  `json:"date"`
		Amount      *float64 `json:"amount"`
		Description string   `json:"description"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	date, err := fromJSONDate(aux.Date)
	if err != nil {
		return err
	}

	*m = Movement{
		Reference:   aux.Reference,
		Date:        date,
		Amount:      fromJSONAmount(aux.Amount),
		Description: aux.Description,
	}
	return nil
}

func jsonDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func jsonAmount(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromJSONDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", *s)
}

func fromJSONAmount(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Toggle flips the matched flag without re-validating tolerances. It is the
// manual-override escape hatch for a human reviewer, not part of the
// matching algorithm. The movement reference survives the flip, so toggling
// back to matched restores the original pairing.
func (r *MatchResult) Toggle() {
	r.Matched = !r.Matched
}

// Unmatched filters results down to the unmatched entries, preserving order.
// This is the export surface; serialization is the caller's concern.
func Unmatched(results []*MatchResult) []*MatchResult {
	var out []*MatchResult
	for _, r := range results {
		if !r.Matched {
			out = append(out, r)
		}
	}
	return out
}
