// Package ingest fans a batch of mixed-format documents out to the source
// parsers and reassembles the records in input order.
//
// Documents are independent of each other, so extraction and parsing run
// concurrently across documents; the output ordering is still exactly the
// caller-supplied document order followed by each parser's emission order,
// because the matcher's first-fit tie-breaking depends on it. A failure on
// one document is recorded and never aborts the rest of the batch.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/sources/freetext"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/sources/markup"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/sources/tabular"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// Role says which side of the reconciliation a document belongs to. It is
// declared by the caller, never sniffed from content.
type Role string

const (
	RoleInvoice  Role = "invoice"
	RoleMovement Role = "movement"
)

// Format is the document's format family, also declared by the caller
// (typically derived from the file extension).
type Format string

const (
	FormatTabular  Format = "tabular"
	FormatMarkup   Format = "markup"
	FormatFreeText Format = "freetext"
)

// FormatForFilename maps a file extension to its format family.
func FormatForFilename(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "csv":
		return FormatTabular, true
	case "xml":
		return FormatMarkup, true
	case "pdf", "txt":
		return FormatFreeText, true
	}
	return "", false
}

// Document is one raw input to the pipeline.
type Document struct {
	Name   string
	Role   Role
	Format Format
	Data   []byte
}

// DocumentError records a failure isolated to a single document.
type DocumentError struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	Err  string `json:"error"`
}

// Result is the concatenation of every record each parser produced, in
// input order, plus the per-document failures.
type Result struct {
	Invoices  []record.Invoice
	Movements []record.Movement
	Errors    []DocumentError
}

// TextExtractor turns a binary document into plain text. Only the free-text
// family needs it.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Pipeline routes documents to parsers.
type Pipeline struct {
	extractor TextExtractor
	logger    *slog.Logger
}

// New creates a pipeline. extractor may be nil when no free-text documents
// are expected; a free-text document without an extractor becomes a
// per-document error.
func New(extractor TextExtractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, logger: logger}
}

// docOutput holds one document's parse output before reassembly.
type docOutput struct {
	invoices  []record.Invoice
	movements []record.Movement
	err       error
}

// Ingest processes the batch. Per-document work runs concurrently; the
// returned slices are ordered by input document position.
func (p *Pipeline) Ingest(ctx context.Context, docs []Document) Result {
	outputs := make([]docOutput, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	for i := range docs {
		g.Go(func() error {
			outputs[i] = p.processDocument(ctx, docs[i])
			return nil
		})
	}
	// Workers never return errors; failures land in their output slot.
	_ = g.Wait()

	var res Result
	for i, out := range outputs {
		if out.err != nil {
			p.logger.Warn("document failed",
				"name", docs[i].Name,
				"role", string(docs[i].Role),
				"error", out.err,
			)
			res.Errors = append(res.Errors, DocumentError{
				Name: docs[i].Name,
				Role: docs[i].Role,
				Err:  out.err.Error(),
			})
			continue
		}
		res.Invoices = append(res.Invoices, out.invoices...)
		res.Movements = append(res.Movements, out.movements...)
	}
	return res
}

func (p *Pipeline) processDocument(ctx context.Context, doc Document) docOutput {
	text, err := p.documentText(ctx, doc)
	if err != nil {
		return docOutput{err: err}
	}

	switch doc.Format {
	case FormatTabular:
		if doc.Role == RoleInvoice {
			return docOutput{invoices: tabular.ParseInvoices(text)}
		}
		return docOutput{movements: tabular.ParseMovements(text)}
	case FormatMarkup:
		if doc.Role == RoleInvoice {
			return docOutput{invoices: markup.ParseInvoices(text)}
		}
		return docOutput{movements: markup.ParseMovements(text)}
	case FormatFreeText:
		if doc.Role == RoleInvoice {
			return docOutput{invoices: freetext.ParseInvoices(text)}
		}
		return docOutput{movements: freetext.ParseMovements(text)}
	}
	return docOutput{err: fmt.Errorf("unknown format %q", doc.Format)}
}

// documentText decodes the document into text, calling the extraction
// service for the free-text family only.
func (p *Pipeline) documentText(ctx context.Context, doc Document) (string, error) {
	if doc.Format != FormatFreeText {
		return string(doc.Data), nil
	}
	if p.extractor == nil {
		return "", fmt.Errorf("no text extractor configured")
	}
	text, err := p.extractor.ExtractText(ctx, doc.Data)
	if err != nil {
		return "", fmt.Errorf("text extraction: %w", err)
	}
	return text, nil
}
