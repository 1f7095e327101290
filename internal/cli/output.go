package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/service"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
)

// PrintHeader prints the application header
func PrintHeader(invoiceFiles, statementFiles int) {
	fmt.Printf("conciliador: %d invoice file(s), %d statement file(s)\n\n", invoiceFiles, statementFiles)
}

// PrintRunSummary prints the reconciliation result summary
func PrintRunSummary(run *service.Run, verbose bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Total=%d Matched=%d Unmatched=%d\n",
		run.Summary.Total,
		run.Summary.Matched,
		run.Summary.Unmatched)

	if len(run.Errors) > 0 {
		fmt.Println("\nDocument errors:")
		for _, e := range run.Errors {
			fmt.Printf("  - %s (%s): %s\n", e.Name, e.Role, e.Err)
		}
	}

	if verbose {
		fmt.Println("\nResults:")
		for _, r := range run.Results {
			status := "unmatched"
			if r.Matched {
				status = "matched"
			}
			amount := ""
			if !math.IsNaN(r.Amount) {
				amount = fmt.Sprintf(" %.2f", r.Amount)
			}
			fmt.Printf("  %3d. [%s] %s%s %s\n", r.Seq, status, r.Identifier, amount, normalize.FormatDate(r.IssueDate))
			if r.Movement != nil {
				fmt.Printf("       -> %s\n", r.Movement.Reference)
			}
		}
	}
}
