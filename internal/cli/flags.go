package cli

import (
	"flag"
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/matcher"
)

// fileList is a repeatable flag collecting file paths.
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

// ReconcileFlags are the flags for the one-shot reconcile command.
type ReconcileFlags struct {
	Invoices        fileList
	Statements      fileList
	DayTolerance    int
	AmountTolerance float64
	Out             string
	Verbose         bool
}

// ParseReconcileFlags parses command line flags for the reconcile command.
func ParseReconcileFlags() *ReconcileFlags {
	flags := &ReconcileFlags{}
	flag.Var(&flags.Invoices, "invoice", "Invoice file (repeatable)")
	flag.Var(&flags.Statements, "statement", "Bank statement file (repeatable)")
	flag.IntVar(&flags.DayTolerance, "days", 3, "Date tolerance in days for amount matching")
	flag.Float64Var(&flags.AmountTolerance, "tolerance", 0.01, "Amount tolerance")
	flag.StringVar(&flags.Out, "out", "", "Write unmatched invoices to this CSV file")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToMatchConfig converts ReconcileFlags to a matcher config.
func (f *ReconcileFlags) ToMatchConfig() matcher.Config {
	return matcher.Config{
		DayTolerance:    f.DayTolerance,
		AmountTolerance: f.AmountTolerance,
	}
}
