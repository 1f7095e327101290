// Package cli holds the shared pieces of the command line entrypoints:
// flag parsing, console output and the run loops.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/export"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/extraction"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/ingest"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/service"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/infrastructure/config"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/infrastructure/logging"
)

// RunReconcile runs a single reconciliation batch from local files and
// prints the outcome.
func RunReconcile(cfg *config.Config, flags *ReconcileFlags) error {
	if len(flags.Invoices) == 0 || len(flags.Statements) == 0 {
		return fmt.Errorf("need at least one -invoice and one -statement file")
	}

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "reconcile")

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	var docs []ingest.Document
	for _, path := range flags.Invoices {
		doc, err := readDocumentFile(path, ingest.RoleInvoice)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	for _, path := range flags.Statements {
		doc, err := readDocumentFile(path, ingest.RoleMovement)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	PrintHeader(len(flags.Invoices), len(flags.Statements))

	pipeline := ingest.New(extractor, logger)
	svc := service.New(pipeline, logger)

	run, err := svc.Reconcile(context.Background(), docs, flags.ToMatchConfig())
	if err != nil {
		return err
	}

	PrintRunSummary(run, flags.Verbose)

	if flags.Out != "" {
		if err := writeUnmatchedFile(flags.Out, svc, run.ID); err != nil {
			return err
		}
		fmt.Printf("\nUnmatched invoices written to %s\n", flags.Out)
	}
	return nil
}

// newExtractor picks the free-text extractor: the extraction service when an
// endpoint is configured, otherwise plain passthrough for pre-extracted text.
func newExtractor(cfg *config.Config) (ingest.TextExtractor, error) {
	if cfg.Extraction.Endpoint == "" {
		return extraction.Passthrough{}, nil
	}
	client, err := extraction.New(cfg.Extraction.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("extraction endpoint: %w", err)
	}
	return client, nil
}

func readDocumentFile(path string, role ingest.Role) (ingest.Document, error) {
	format, ok := ingest.FormatForFilename(path)
	if !ok {
		return ingest.Document{}, fmt.Errorf("unsupported file type: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.Document{}, err
	}

	return ingest.Document{
		Name:   path,
		Role:   role,
		Format: format,
		Data:   data,
	}, nil
}

func writeUnmatchedFile(path string, svc *service.ReconcileService, runID string) error {
	results, err := svc.UnmatchedResults(runID)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return export.WriteUnmatchedCSV(f, results)
}
