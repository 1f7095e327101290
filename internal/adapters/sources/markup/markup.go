// Package markup parses structured-markup documents.
//
// The invoice side understands CFDI-style fiscal documents: a Comprobante
// root element (any namespace prefix) with Serie/Folio/Fecha/Total
// attributes, an optional TimbreFiscalDigital stamp carrying the fiscal
// UUID, and a Receptor element carrying the recipient RFC.
//
// The movement side has no fixed schema, so it scans every element and
// keeps the ones whose attributes look like a statement line. That is
// intentionally permissive.
package markup

import (
	"encoding/xml"
	"math"
	"strings"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

// ParseInvoices parses a fiscal document. It emits exactly one invoice, or
// none when no Comprobante root is present. The stamp UUID, when present,
// takes priority over the series+folio composite as the identifier.
func ParseInvoices(text string) []record.Invoice {
	var (
		found bool
		serie string
		folio string
		fecha string
		total string
		uuid  string
		rfc   string
	)

	walk(text, func(el xml.StartElement) {
		switch strings.ToLower(el.Name.Local) {
		case "comprobante":
			if found {
				return
			}
			found = true
			serie = attr(el, "serie")
			folio = attr(el, "folio")
			fecha = attr(el, "fecha")
			total = attr(el, "total")
		case "timbrefiscaldigital":
			if uuid == "" {
				uuid = attr(el, "uuid")
			}
		case "receptor":
			if rfc == "" {
				rfc = attr(el, "rfc")
			}
		}
	})

	if !found {
		return nil
	}

	identifier := uuid
	if identifier == "" {
		identifier = composite(serie, folio)
	}

	return []record.Invoice{{
		Identifier:     identifier,
		IssueDate:      normalize.ParseDate(fecha),
		Amount:         normalize.ParseAmount(total),
		CounterpartyID: rfc,
		Origin:         record.OriginStructured,
	}}
}

// ParseMovements scans every element and emits one movement candidate per
// element that yields at least one of a reference, a valid amount or a valid
// date. The element name becomes the description.
func ParseMovements(text string) []record.Movement {
	var out []record.Movement

	walk(text, func(el xml.StartElement) {
		attrs := make(map[string]string, len(el.Attr))
		for _, a := range el.Attr {
			attrs[normalize.FieldKey(a.Name.Local)] = a.Value
		}

		date := normalize.ParseDate(firstOf(attrs, "fecha", "date"))
		amount := normalize.ParseAmount(firstOf(attrs, "amount", "monto", "importe"))
		reference := firstOf(attrs, "reference", "referencia", "ref")

		if reference == "" && math.IsNaN(amount) && date.IsZero() {
			return
		}
		out = append(out, record.Movement{
			Reference:   reference,
			Date:        date,
			Amount:      amount,
			Description: el.Name.Local,
		})
	})

	return out
}

// walk feeds every start element to fn. Malformed markup is tolerated up to
// the point of the syntax error; whatever was seen before it still counts.
func walk(text string, fn func(xml.StartElement)) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if el, ok := tok.(xml.StartElement); ok {
			fn(el)
		}
	}
}

// attr returns the value of the named attribute, matched case-insensitively
// on the local name.
func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func firstOf(attrs map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			return v
		}
	}
	return ""
}

// composite joins series and folio the way the identifier is written on the
// printed document: "A-123", or just one side when the other is missing.
func composite(serie, folio string) string {
	if folio == "" {
		return serie
	}
	if serie == "" {
		return folio
	}
	return serie + "-" + folio
}
