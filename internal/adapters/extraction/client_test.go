package extraction_test

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/extraction"
)

func TestClient_ExtractText(t *testing.T) {
	defer gock.Off()

	gock.New("http://extractor.local").
		Post("/api/v1/extract").
		Reply(200).
		JSON(map[string]string{"text": "Folio: F-1042\nTotal $100.00"})

	c, err := extraction.New("http://extractor.local")
	require.NoError(t, err)
	c.SetHTTPTransport(gock.NewTransport())

	text, err := c.ExtractText(context.Background(), []byte{0x25, 0x50, 0x44, 0x46})
	require.NoError(t, err)
	assert.Equal(t, "Folio: F-1042\nTotal $100.00", text)
	assert.True(t, gock.IsDone())
}

func TestClient_ExtractTextServerError(t *testing.T) {
	defer gock.Off()

	gock.New("http://extractor.local").
		Post("/api/v1/extract").
		Reply(500)

	c, err := extraction.New("http://extractor.local")
	require.NoError(t, err)
	c.SetHTTPTransport(gock.NewTransport())

	_, err = c.ExtractText(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestClient_Healthz(t *testing.T) {
	defer gock.Off()

	gock.New("http://extractor.local").
		Get("/healthz").
		Reply(200)

	c, err := extraction.New("http://extractor.local")
	require.NoError(t, err)
	c.SetHTTPTransport(gock.NewTransport())

	healthy, err := c.Healthz()
	require.NoError(t, err)
	assert.True(t, healthy)
}

func TestNew_RejectsUnsupportedScheme(t *testing.T) {
	_, err := extraction.New("ftp://extractor.local")
	assert.Error(t, err)
}

func TestPassthrough(t *testing.T) {
	text, err := extraction.Passthrough{}.ExtractText(context.Background(), []byte("hola"))
	require.NoError(t, err)
	assert.Equal(t, "hola", text)
}
