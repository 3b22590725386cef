// Package pdf genera el comprobante de pago (abono) en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────┐
//	│  COMPROBANTE DE PAGO       │  N° + Fecha       │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Documento                  │
//	│  CRÉDITO: id, total, estado                   │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Producto | Abonado                    │
//	│  ───────────────────────────────────────────  │
//	│  TOTALES: abonado antes / este abono / saldo  │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Creditos-api/internal/application/payment"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ payment.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa payment.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	company string
}

// NewReceiptGenerator construye el generador. company se imprime en el encabezado.
func NewReceiptGenerator(company string) *ReceiptGenerator {
	return &ReceiptGenerator{company: company}
}

// GeneratePaymentReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GeneratePaymentReceipt(_ context.Context, data payment.ReceiptData) ([]byte, error) {
	if data.Payment == nil || data.Credit == nil {
		return nil, fmt.Errorf("pdf: comprobante sin abono o crédito")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data))
	m.AddRows(creditRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(data.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(data)...)
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("Conserve este comprobante como soporte de su abono.", props.Text{
			Size: 7, Color: colorGray, Top: 4, Align: align.Center,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(data payment.ReceiptData) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.company, "Créditos"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE PAGO", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("N° "+shortID(data.Payment.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+data.Payment.PaymentDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Medio: "+data.Payment.Method, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func clientRow(data payment.ReceiptData) core.Row {
	name, doc := "—", "—"
	if data.Client != nil {
		name = nonEmpty(data.Client.Name, data.Client.ID)
		doc = nonEmpty(data.Client.Document, "—")
	}
	return row.New(12).Add(col.New(12).Add(
		text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
		text.New("Documento: "+doc, props.Text{Size: 7, Top: 9, Color: colorGray}),
	))
}

func creditRow(data payment.ReceiptData) core.Row {
	c := data.Credit
	return row.New(10).Add(col.New(12).Add(
		text.New("CRÉDITO", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		text.New(fmt.Sprintf("%s   |   Total: $%s   |   Estado: %s",
			shortID(c.ID), formatMoney(c.TotalAmount), c.State,
		), props.Text{Size: 8, Top: 5}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Producto", 8, align.Left),
		h("Abonado", 4, align.Right),
	)
}

// tableRows una fila por producto; un crédito sin productos muestra una sola línea.
func tableRows(lines []payment.ReceiptLine) []core.Row {
	if len(lines) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Abono al saldo general del crédito", props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
		))}
	}
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(6).Add(
			col.New(8).Add(text.New(nonEmpty(l.ProductName, l.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New("$"+formatMoney(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalsRows bloque de totales alineado a la derecha.
func totalsRows(data payment.ReceiptData) []core.Row {
	line := func(label string, amount decimal.Decimal, bold bool) core.Row {
		p := props.Text{Size: 8, Align: align.Right, Right: 2, Top: 1}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return row.New(6).Add(
			col.New(4),
			col.New(4).Add(text.New(label, p)),
			col.New(4).Add(text.New("$"+formatMoney(amount), p)),
		)
	}
	return []core.Row{
		line("Abonado antes:", data.PreviousPaid, false),
		line("Este abono:", data.Payment.Amount, false),
		line("Saldo pendiente:", data.Credit.Balance, true),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
