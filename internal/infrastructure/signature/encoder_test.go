package signature_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/signature"
)

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// signedCanvas lienzo transparente de 600x200 con una línea negra horizontal.
func signedCanvas() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 600, 200))
	for x := 100; x < 500; x++ {
		for y := 98; y < 102; y++ {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

func TestEncode_ComprimeA200x67JPEG(t *testing.T) {
	out, err := signature.NewEncoder().Encode(pngDataURL(t, signedCanvas()))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	raw, mime, err := signature.ParseDataURL(out)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, signature.TargetWidth, img.Bounds().Dx())
	assert.Equal(t, signature.TargetHeight, img.Bounds().Dy())
}

func TestEncode_LienzoVacio(t *testing.T) {
	blank := image.NewNRGBA(image.Rect(0, 0, 600, 200))
	_, err := signature.NewEncoder().Encode(pngDataURL(t, blank))
	assert.ErrorIs(t, err, domain.ErrMissingSignature)

	_, err = signature.NewEncoder().Encode("   ")
	assert.ErrorIs(t, err, domain.ErrMissingSignature)
}

func TestEncode_DataURLInvalida(t *testing.T) {
	enc := signature.NewEncoder()
	for _, in := range []string{
		"hola",
		"data:image/png,AAAA",
		"data:image/gif;base64,R0lGODlh",
		"data:image/png;base64,@@@",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("no es png")),
	} {
		_, err := enc.Encode(in)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, in)
	}
}

func TestIsBlank(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.True(t, signature.IsBlank(img))
	img.Set(9, 9, color.NRGBA{R: 1})
	assert.False(t, signature.IsBlank(img))
}
