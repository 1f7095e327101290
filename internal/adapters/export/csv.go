// Package export writes reconciliation results to downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

var unmatchedHeaders = []string{"invoiceNumber", "invoiceDate", "invoiceAmount", "client", "status"}

// WriteUnmatchedCSV writes the unmatched invoices from results as CSV rows.
// Amounts that could not be parsed are left blank.
func WriteUnmatchedCSV(w io.Writer, results []*record.MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(unmatchedHeaders); err != nil {
		return err
	}
	for _, r := range results {
		if r.Matched {
			continue
		}
		amount := ""
		if !math.IsNaN(r.Amount) {
			amount = fmt.Sprintf("%.2f", r.Amount)
		}
		row := []string{
			r.Identifier,
			normalize.FormatDate(r.IssueDate),
			amount,
			r.CounterpartyID,
			"no_conciliada",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
