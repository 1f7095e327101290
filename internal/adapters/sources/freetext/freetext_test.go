package freetext

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/normalize"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/record"
)

func TestParseInvoices_UUIDFound(t *testing.T) {
	text := `FACTURA ELECTRONICA
Folio Fiscal: ad662d33-6934-459c-a128-bdf0393f0f44
Fecha de emision: 05/03/2024
RFC: XAXX010101000
Total $1,160.00`

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	inv := invoices[0]
	assert.Equal(t, "ad662d33-6934-459c-a128-bdf0393f0f44", inv.Identifier)
	assert.Equal(t, "2024-03-05", normalize.FormatDate(inv.IssueDate))
	assert.InDelta(t, 1160.00, inv.Amount, 0.001)
	assert.Equal(t, "XAXX010101000", inv.CounterpartyID)
	assert.Equal(t, record.OriginFreeText, inv.Origin)
}

func TestParseInvoices_FolioLabel(t *testing.T) {
	text := "Factura: F-2024-001 emitida el 2024-02-01 por $350.00"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	assert.Equal(t, "F-2024-001", invoices[0].Identifier)
}

func TestParseInvoices_AmountAndDateWithoutIdentifier(t *testing.T) {
	text := "Recibo simple del 15/01/2024 por un total de $99.90"

	invoices := ParseInvoices(text)

	require.Len(t, invoices, 1)
	assert.Equal(t, "", invoices[0].Identifier)
	assert.InDelta(t, 99.90, invoices[0].Amount, 0.001)
}

func TestParseInvoices_AmountWithoutDateDropped(t *testing.T) {
	// No identifier, no folio, no date: an amount alone is not enough
	assert.Empty(t, ParseInvoices("Total a pagar $99.90"))
}

func TestParseInvoices_IncidentalTextDropped(t *testing.T) {
	assert.Empty(t, ParseInvoices("Estimado cliente, gracias por su preferencia."))
	assert.Empty(t, ParseInvoices(""))
}

func TestParseMovements_DateAndAmountLine(t *testing.T) {
	text := `ESTADO DE CUENTA ENERO
10/01/2024 PAGO FACTURA F-1042 -1,500.00
11/01/2024 DEPOSITO NOMINA 8,200.00
linea sin datos utiles`

	movements := ParseMovements(text)

	require.Len(t, movements, 2)
	assert.Equal(t, "PAGO FACTURA F-1042", movements[0].Reference)
	assert.Equal(t, "2024-01-10", normalize.FormatDate(movements[0].Date))
	assert.InDelta(t, -1500.00, movements[0].Amount, 0.001)
	assert.Equal(t, "PAGO FACTURA F-1042", movements[0].Description)
}

func TestParseMovements_EmptyReferenceDefaults(t *testing.T) {
	movements := ParseMovements("10/01/2024 450.00")

	require.Len(t, movements, 1)
	assert.Equal(t, "movimiento", movements[0].Reference)
	assert.Equal(t, "", movements[0].Description)
}

func TestParseMovements_FolioFallbackLine(t *testing.T) {
	// No date, but a labeled reference plus an amount
	movements := ParseMovements("Ref: F-1042 cargo por 1500.00")

	require.Len(t, movements, 1)
	assert.Equal(t, "F-1042", movements[0].Reference)
	assert.True(t, movements[0].Date.IsZero())
	assert.InDelta(t, 1500.00, movements[0].Amount, 0.001)
	assert.Equal(t, "Ref: F-1042 cargo por 1500.00", movements[0].Description)
}

func TestParseMovements_LinesAreIndependent(t *testing.T) {
	// A date on one line never pairs with an amount on the next
	movements := ParseMovements("10/01/2024 pago\n1500.00")

	assert.Empty(t, movements)
}

func TestParseMovements_AmountWithoutLabelDropped(t *testing.T) {
	assert.Empty(t, ParseMovements("cargo por 1500.00"))
	assert.Empty(t, ParseMovements(""))
}

func TestParseInvoices_NaNAmountWithFolioStillEmitted(t *testing.T) {
	invoices := ParseInvoices("Folio: ABC-9999 sin importe visible")

	require.Len(t, invoices, 1)
	assert.Equal(t, "ABC-9999", invoices[0].Identifier)
	assert.True(t, math.IsNaN(invoices[0].Amount))
}
