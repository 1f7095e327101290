// Package freetext extracts candidate records from unstructured document
// text, typically the output of a text-extraction service run over a
// scanned invoice or account statement.
//
// This is best-effort pattern matching with no correctness guarantee. The
// output is a candidate list behind the same shape as the higher-confidence
// parsers so the matcher stays agnostic to provenance.
package freetext

import (
	"math"
	"regexp"
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

var (
	// Fiscal UUID: 8-4-4-4-12 hex groups.
	uuidRe = regexp.MustCompile(`(?i)\b[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\b`)

	// Labeled folio / invoice number.
	folioRe = regexp.MustCompile(`(?i)\b(Folio Fiscal|No\.? Factura|Folio|Factura)\s*[:#]?\s*([A-Z0-9\-]{4,})`)

	// Two calendar formats: dd/mm/yyyy and yyyy-mm-dd.
	dateRe = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})\b`)

	// Currency amount with optional $ and thousands separators, two-decimal
	// cents. The signed variant also accepts a leading minus.
	amountRe       = regexp.MustCompile(`\$?\s?([0-9]{1,3}(?:[.,][0-9]{3})*(?:\.[0-9]{2})|\d+\.\d{2})`)
	signedAmountRe = regexp.MustCompile(`(-?\$?\s?[0-9]{1,3}(?:[.,][0-9]{3})*(?:\.[0-9]{2})|-?\d+\.\d{2})`)

	// Labeled client / RFC token.
	clientRe = regexp.MustCompile(`(?i)\b(RFC|Cliente|Receptor)\s*[:#]?\s*([A-Z0-9&\-]{6,13})`)

	// Lower-confidence statement line: a labeled reference next to an amount.
	lineRefRe = regexp.MustCompile(`(?i)\b(Factura|Folio|Ref)\s*[:#]?\s*([A-Z0-9\-]{4,})`)
)

// ParseInvoices searches the whole text for fiscal-identifier, folio, date,
// amount and client patterns, each independently. It emits at most one
// invoice: only when an identifier or folio was found, or both an amount and
// a date were. Incidental numbers alone never produce an invoice.
func ParseInvoices(text string) []record.Invoice {
	uuid := uuidRe.FindString(text)

	folio := ""
	if m := folioRe.FindStringSubmatch(text); m != nil {
		folio = m[2]
	}

	date := normalize.ParseDate(dateRe.FindString(text))

	amount := math.NaN()
	if m := amountRe.FindStringSubmatch(text); m != nil {
		amount = normalize.ParseAmount(m[1])
	}

	client := ""
	if m := clientRe.FindStringSubmatch(text); m != nil {
		client = m[2]
	}

	if uuid == "" && folio == "" && (math.IsNaN(amount) || date.IsZero()) {
		return nil
	}

	identifier := uuid
	if identifier == "" {
		identifier = folio
	}

	return []record.Invoice{{
		Identifier:     identifier,
		IssueDate:      date,
		Amount:         amount,
		CounterpartyID: client,
		Origin:         record.OriginFreeText,
	}}
}

// ParseMovements evaluates each non-blank line independently. A line with
// both a date and an amount becomes a movement whose reference is the line
// text minus the matched substrings ("movimiento" when nothing is left). A
// line with only a labeled folio/reference plus an amount becomes a
// lower-confidence movement. Everything else is dropped silently.
func ParseMovements(text string) []record.Movement {
	var out []record.Movement

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		dm := dateRe.FindString(line)
		am := signedAmountRe.FindString(line)

		if dm != "" && am != "" {
			ref := strings.TrimSpace(strings.Replace(strings.Replace(line, dm, "", 1), am, "", 1))
			reference := ref
			if reference == "" {
				reference = "movimiento"
			}
			out = append(out, record.Movement{
				Reference:   reference,
				Date:        normalize.ParseDate(dm),
				Amount:      normalize.ParseAmount(am),
				Description: ref,
			})
			continue
		}

		if m := lineRefRe.FindStringSubmatch(line); m != nil && am != "" {
			out = append(out, record.Movement{
				Reference:   m[2],
				Amount:      normalize.ParseAmount(am),
				Description: line,
			})
		}
	}

	return out
}
