// Package signature procesa la imagen de firma que entrega el pad táctil:
// detecta lienzos vacíos y la reduce a un JPEG pequeño para el envío y la cola offline.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	"image/jpeg"
	_ "image/png" // decodificador PNG para image.Decode
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/jhoicas/luxy-checkout/internal/domain"
)

// Dimensiones y calidad de la firma comprimida.
const (
	TargetWidth  = 200
	TargetHeight = 67
	JPEGQuality  = 60
	maxBytes     = 2 << 20
)

var allowedMimes = []string{"image/png", "image/jpeg"}

// Encoder implementa checkout.SignatureEncoder.
type Encoder struct{}

// NewEncoder construye el codificador.
func NewEncoder() *Encoder { return &Encoder{} }

// Encode valida la firma (data URL) y la devuelve comprimida como data URL JPEG.
// Una firma vacía o un lienzo sin trazos devuelve domain.ErrMissingSignature.
func (e *Encoder) Encode(dataURL string) (string, error) {
	if strings.TrimSpace(dataURL) == "" {
		return "", domain.ErrMissingSignature
	}
	raw, _, err := ParseDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if IsBlank(src) {
		return "", domain.ErrMissingSignature
	}

	// Fondo blanco: JPEG no tiene canal alfa y el lienzo del pad es transparente.
	dst := image.NewRGBA(image.Rect(0, 0, TargetWidth, TargetHeight))
	stddraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, stddraw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("codificar firma: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

// IsBlank indica si todos los canales de todos los píxeles son cero (lienzo sin trazos).
func IsBlank(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r != 0 || g != 0 || bl != 0 || a != 0 {
				return false
			}
		}
	}
	return true
}

// ParseDataURL decodifica "data:<mime>;base64,<payload>" y devuelve bytes y mime.
func ParseDataURL(value string) ([]byte, string, error) {
	raw := strings.TrimSpace(value)
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", errors.New("prefijo de data url inválido")
	}
	comma := strings.Index(raw, ",")
	if comma <= 5 {
		return nil, "", errors.New("data url sin contenido")
	}
	meta := raw[5:comma]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, "", errors.New("la data url debe ser base64")
	}
	mime := strings.ToLower(strings.TrimSpace(meta[:len(meta)-len(";base64")]))
	allowed := false
	for _, m := range allowedMimes {
		if m == mime {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", fmt.Errorf("tipo de imagen no soportado %q", mime)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[comma+1:])
	if err != nil {
		return nil, "", errors.New("no se pudo decodificar la data url")
	}
	if len(decoded) == 0 {
		return nil, "", errors.New("data url vacía")
	}
	if len(decoded) > maxBytes {
		return nil, "", errors.New("la firma excede el tamaño máximo")
	}
	return decoded, mime, nil
}
