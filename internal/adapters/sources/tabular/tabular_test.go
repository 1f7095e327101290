package tabular

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

func TestParseInvoices_Basic(t *testing.T) {
	text := "folio,fecha,total,rfc\nF-100,2024-03-05,1500.00,XAXX010101000\nF-101,05/03/2024,200.50,\n"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 2)
	assert.Equal(t, "F-100", invoices[0].Identifier)
	assert.Equal(t, "2024-03-05", normalize.FormatDate(invoices[0].IssueDate))
	assert.InDelta(t, 1500.00, invoices[0].Amount, 0.001)
	assert.Equal(t, "XAXX010101000", invoices[0].CounterpartyID)
	assert.Equal(t, record.OriginTabular, invoices[0].Origin)

	// day-first date in the second row
	assert.Equal(t, "2024-03-05", normalize.FormatDate(invoices[1].IssueDate))
	assert.Equal(t, "", invoices[1].CounterpartyID)
}

func TestParseInvoices_HeaderSynonymsAndCasing(t *testing.T) {
	text := "Invoice Number,Date,Amount,Client\nINV-1,2024-01-02,10.00,Acme\n"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1", invoices[0].Identifier)
	assert.Equal(t, "Acme", invoices[0].CounterpartyID)
}

func TestParseInvoices_QuotedFieldWithComma(t *testing.T) {
	text := "cliente,importe\n\"Acme, Inc.\",100.50\n"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	assert.Equal(t, "Acme, Inc.", invoices[0].CounterpartyID)
	assert.InDelta(t, 100.50, invoices[0].Amount, 0.001)
}

func TestSplitLine_DoubledQuote(t *testing.T) {
	fields := splitLine(`"say ""hi""",2`)

	require.Len(t, fields, 2)
	assert.Equal(t, `say "hi"`, fields[0])
	assert.Equal(t, "2", fields[1])
}

func TestParseInvoices_SynonymPriorityPerRow(t *testing.T) {
	// Both folio and uuid columns exist; folio is listed before uuid only in
	// a row where it is non-empty.
	text := "folio,uuid\nF-1,AAAA\n,BBBB\n"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 2)
	assert.Equal(t, "F-1", invoices[0].Identifier)
	assert.Equal(t, "BBBB", invoices[1].Identifier)
}

func TestParseInvoices_UnparseableAmountBecomesNaN(t *testing.T) {
	text := "folio,total\nF-1,N/A\n"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	assert.True(t, math.IsNaN(invoices[0].Amount))
}

func TestParseInvoices_EmptyAndBlank(t *testing.T) {
	assert.Empty(t, ParseInvoices(""))
	assert.Empty(t, ParseInvoices("\n\n  \n"))
	// header only, no data rows
	assert.Empty(t, ParseInvoices("folio,total\n"))
}

func TestParseMovements_Basic(t *testing.T) {
	text := "fecha,descripcion,monto\n2024-01-10,TRANSFERENCIA SPEI,-1500.00\n2024-01-11,DEPOSITO,2000.00\n"

	movements := ParseMovements(text)

	require.Len(t, movements, 2)
	assert.Equal(t, "TRANSFERENCIA SPEI", movements[0].Reference)
	assert.InDelta(t, -1500.00, movements[0].Amount, 0.001)
	assert.Equal(t, "2024-01-10", normalize.FormatDate(movements[0].Date))
}

func TestParseMovements_ReferenceColumn(t *testing.T) {
	text := "ref,monto\nF-100,1500.00\n"

	movements := ParseMovements(text)

	require.Len(t, movements, 1)
	assert.Equal(t, "F-100", movements[0].Reference)
}

func TestParseMovements_ShortRowTolerated(t *testing.T) {
	text := "fecha,descripcion,monto\n2024-01-10\n"

	movements := ParseMovements(text)

	require.Len(t, movements, 1)
	assert.Equal(t, "", movements[0].Reference)
	assert.True(t, math.IsNaN(movements[0].Amount))
}
