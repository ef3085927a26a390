package pdf_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/pdf"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/signature"
)

func signedRecord(t *testing.T) entity.CheckoutRecord {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	for x := 20; x < 280; x++ {
		img.Set(x, 50, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	sig, err := signature.NewEncoder().Encode("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)

	return entity.NewCheckoutRecord(
		time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC),
		entity.Employee{ID: "e1", Name: "Alice"},
		[]entity.CartLine{
			{ID: "i1", Name: "Gloves", Unit: "pair", Quantity: 3},
			{ID: "i2", Name: "Tape", Unit: "roll", Quantity: 1},
		},
		sig,
	)
}

func TestGenerate_ComprobanteConFirma(t *testing.T) {
	out, err := pdf.NewReceiptGenerator("Luxy Checkout").Generate(signedRecord(t), string(entity.OutcomeDelivered))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_SinFirmaLegible(t *testing.T) {
	rec := signedRecord(t)
	rec.Signature = ""
	out, err := pdf.NewReceiptGenerator("Luxy Checkout").Generate(rec, "pending")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
