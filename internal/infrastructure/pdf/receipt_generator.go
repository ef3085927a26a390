// Package pdf genera el comprobante imprimible de un retiro de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comprobante de retiro  │  Fecha + estado            │
//	│  EMPLEADO: nombre + id                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Unidad | Ítem                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMA: imagen comprimida                                    │
//	│  FOOTER: id del retiro                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/signature"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 180, Green: 90, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator arma comprobantes de retiro con Maroto v2.
type ReceiptGenerator struct {
	title string
}

// NewReceiptGenerator construye el generador; title encabeza el documento (p. ej. APP_NAME).
func NewReceiptGenerator(title string) *ReceiptGenerator {
	return &ReceiptGenerator{title: title}
}

// Generate devuelve el PDF del retiro. status es "delivered", "queued" o "pending".
func (g *ReceiptGenerator) Generate(record entity.CheckoutRecord, status string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Checkout receipt", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, record, status))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(employeeRow(record.Employee))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(record.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if r, ok := signatureRow(record.Signature); ok {
		m.AddRows(r)
	}
	m.AddRows(footerRow(record.ID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, record entity.CheckoutRecord, status string) core.Row {
	statusColor := colorPrimary
	if status != string(entity.OutcomeDelivered) {
		statusColor = colorWarning
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Inventory checkout", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(formatTimestamp(record.Timestamp), props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New(statusLabel(status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 9, Color: statusColor,
			}),
		),
	)
}

func employeeRow(e entity.Employee) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMPLOYEE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s (%s)", e.Name, e.ID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 2, align.Center),
		h("Unit", 3, align.Left),
		h("Item", 7, align.Left),
	)
}

func tableRows(lines []entity.CartLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(l.Unit, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(7).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return out
}

// signatureRow firma como imagen; sin firma legible se omite la fila.
func signatureRow(dataURL string) (core.Row, bool) {
	raw, mime, err := signature.ParseDataURL(dataURL)
	if err != nil {
		return nil, false
	}
	ext := extension.Png
	if mime == "image/jpeg" {
		ext = extension.Jpg
	}
	return row.New(30).Add(
		col.New(2).Add(text.New("Signature", props.Text{Style: fontstyle.Bold, Size: 8, Top: 12})),
		col.New(6).Add(image.NewFromBytes(raw, ext, props.Rect{Percent: 90, Center: true})),
		col.New(4),
	), true
}

func footerRow(id string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Checkout ID: "+id, props.Text{Size: 6.5, Color: colorGray, Top: 3}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case string(entity.OutcomeDelivered):
		return "DELIVERED"
	case string(entity.OutcomeQueued):
		return "SAVED OFFLINE"
	default:
		return "PENDING SYNC"
	}
}

// formatTimestamp "2026-03-02 14:05 UTC"; si no se puede leer se devuelve tal cual.
func formatTimestamp(ts string) string {
	t, err := time.Parse(entity.TimestampLayout, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
