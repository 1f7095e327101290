// Package tabular parses delimiter-separated documents into canonical
// records. The first non-blank line is the header row; header names are
// matched against per-field synonym tables so that "No. Factura", "folio"
// and "UUID" all land on the invoice identifier.
//
// Parsing is best-effort and never fails: malformed rows contribute partial
// records rather than aborting the document.
package tabular

import (
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// Synonym tables: canonical field -> accepted header spellings, in priority
// order. Spellings are compared after normalize.FieldKey, so casing, accents
// and punctuation in the actual header do not matter.
var invoiceFields = map[string][]string{
	"identifier": {"invoicenumber", "invoice", "folio", "uuid"},
	"date":       {"date", "fecha"},
	"amount":     {"amount", "total", "importe"},
	"client":     {"client", "cliente", "rfc"},
}

var movementFields = map[string][]string{
	"reference":   {"reference", "ref", "descripcion", "description"},
	"date":        {"date", "fecha"},
	"amount":      {"amount", "monto", "importe"},
	"description": {"description", "descripcion"},
}

// ParseInvoices parses a tabular document into invoice records.
func ParseInvoices(text string) []record.Invoice {
	var out []record.Invoice
	forEachRow(text, invoiceFields, func(row rowValues) {
		out = append(out, record.Invoice{
			Identifier:     row.first("identifier"),
			IssueDate:      normalize.ParseDate(row.first("date")),
			Amount:         normalize.ParseAmount(row.first("amount")),
			CounterpartyID: row.first("client"),
			Origin:         record.OriginTabular,
		})
	})
	return out
}

// ParseMovements parses a tabular document into movement records.
func ParseMovements(text string) []record.Movement {
	var out []record.Movement
	forEachRow(text, movementFields, func(row rowValues) {
		out = append(out, record.Movement{
			Reference:   row.first("reference"),
			Date:        normalize.ParseDate(row.first("date")),
			Amount:      normalize.ParseAmount(row.first("amount")),
			Description: row.first("description"),
		})
	})
	return out
}

// rowValues holds, per canonical field, the row's values for every matching
// column in synonym priority order.
type rowValues map[string][]string

// first returns the first non-empty value for the field.
func (r rowValues) first(field string) string {
	for _, v := range r[field] {
		if v != "" {
			return v
		}
	}
	return ""
}

// forEachRow resolves the header against the synonym table once, then feeds
// every data row to fn.
func forEachRow(text string, fields map[string][]string, fn func(rowValues)) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return
	}

	headers := splitLine(lines[0])
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = normalize.FieldKey(h)
	}

	// columns[field] lists the column indexes addressing the field, ordered
	// by synonym priority so the spelling listed first wins per row.
	columns := make(map[string][]int, len(fields))
	for field, synonyms := range fields {
		for _, syn := range synonyms {
			for i, k := range keys {
				if k == syn {
					columns[field] = append(columns[field], i)
				}
			}
		}
	}

	for _, line := range lines[1:] {
		parts := splitLine(line)
		row := make(rowValues, len(columns))
		for field, idxs := range columns {
			for _, i := range idxs {
				v := ""
				if i < len(parts) {
					v = parts[i]
				}
				row[field] = append(row[field], v)
			}
		}
		fn(row)
	}
}

func splitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// splitLine splits one delimiter-separated line, honoring double-quoted
// fields that may contain the delimiter. A doubled quote inside a quoted
// field is a literal quote. All fields come back trimmed.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}
