package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/extraction"
)

// failingExtractor always errors, to exercise per-document isolation.
type failingExtractor struct{}

func (failingExtractor) ExtractText(context.Context, []byte) (string, error) {
	return "", errors.New("service unavailable")
}

func TestFormatForFilename(t *testing.T) {
	cases := map[string]Format{
		"facturas.csv":  FormatTabular,
		"FACTURA.XML":   FormatMarkup,
		"estado.pdf":    FormatFreeText,
		"estado.txt":    FormatFreeText,
		"dir/enero.Csv": FormatTabular,
	}
	for name, want := range cases {
		got, ok := FormatForFilename(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := FormatForFilename("imagen.png")
	assert.False(t, ok)
	_, ok = FormatForFilename("sinextension")
	assert.False(t, ok)
}

func TestIngest_MixedBatchPreservesOrder(t *testing.T) {
	p := New(extraction.Passthrough{}, nil)

	docs := []Document{
		{Name: "a.csv", Role: RoleInvoice, Format: FormatTabular,
			Data: []byte("folio,total,fecha\nF-1,100.00,2024-01-10\nF-2,200.00,2024-01-11\n")},
		{Name: "b.xml", Role: RoleInvoice, Format: FormatMarkup,
			Data: []byte(`<Comprobante Serie="A" Folio="3" Fecha="2024-01-12" Total="300.00"/>`)},
		{Name: "c.txt", Role: RoleInvoice, Format: FormatFreeText,
			Data: []byte("Folio: F-4444 del 13/01/2024 por $400.00")},
		{Name: "st.csv", Role: RoleMovement, Format: FormatTabular,
			Data: []byte("fecha,descripcion,monto\n2024-01-10,PAGO F-1,100.00\n")},
	}

	res := p.Ingest(context.Background(), docs)

	require.Empty(t, res.Errors)
	require.Len(t, res.Invoices, 4)
	// Input document order, then intra-document emission order
	assert.Equal(t, "F-1", res.Invoices[0].Identifier)
	assert.Equal(t, "F-2", res.Invoices[1].Identifier)
	assert.Equal(t, "A-3", res.Invoices[2].Identifier)
	assert.Equal(t, "F-4444", res.Invoices[3].Identifier)

	require.Len(t, res.Movements, 1)
	assert.Equal(t, "PAGO F-1", res.Movements[0].Reference)
}

func TestIngest_ExtractionFailureIsIsolated(t *testing.T) {
	p := New(failingExtractor{}, nil)

	docs := []Document{
		{Name: "bad.pdf", Role: RoleInvoice, Format: FormatFreeText, Data: []byte{0x25}},
		{Name: "good.csv", Role: RoleInvoice, Format: FormatTabular,
			Data: []byte("folio,total\nF-9,50.00\n")},
	}

	res := p.Ingest(context.Background(), docs)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "bad.pdf", res.Errors[0].Name)
	assert.Equal(t, RoleInvoice, res.Errors[0].Role)
	assert.Contains(t, res.Errors[0].Err, "service unavailable")

	// The rest of the batch still parsed
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "F-9", res.Invoices[0].Identifier)
}

func TestIngest_FreeTextWithoutExtractor(t *testing.T) {
	p := New(nil, nil)

	res := p.Ingest(context.Background(), []Document{
		{Name: "x.pdf", Role: RoleMovement, Format: FormatFreeText, Data: []byte{0x25}},
	})

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Err, "no text extractor")
}

func TestIngest_UnknownFormat(t *testing.T) {
	p := New(nil, nil)

	res := p.Ingest(context.Background(), []Document{
		{Name: "x.bin", Role: RoleInvoice, Format: Format("binary"), Data: []byte{1}},
	})

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Err, "unknown format")
}

func TestIngest_EmptyBatch(t *testing.T) {
	p := New(nil, nil)

	res := p.Ingest(context.Background(), nil)

	assert.Empty(t, res.Invoices)
	assert.Empty(t, res.Movements)
	assert.Empty(t, res.Errors)
}
