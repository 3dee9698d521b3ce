// Package pdf implementa la generación del reporte consolidado de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha del reporte                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por cada ubicación:                                         │
//	│    SUBTÍTULO: Ubicación                                      │
//	│    TABLA: Ítem | Apertura | Entradas | Salidas | Remanente   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	appreport "github.com/jhoicas/stockflow-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.ConsolidationPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateConsolidationPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateConsolidationPDF(
	_ context.Context,
	rep *appreport.ReportData,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte Consolidado de Stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep.Date))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, locID := range rep.SortedLocationIDs() {
		m.AddRows(locationTitleRow(locID))
		m.AddRows(tableHeaderRow())
		for _, itemID := range rep.SortedItemIDs(locID) {
			m.AddRows(summaryRow(itemID, rep.Summaries[locID][itemID]))
		}
		m.AddRows(line.NewRow(2))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte y fecha consolidada.
func headerRow(date time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE CONSOLIDADO DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Apertura, entradas, salidas y remanente por ubicación", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 4,
			}),
		),
	)
}

// locationTitleRow: subtítulo de la sección de una ubicación.
func locationTitleRow(locationID string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New("Ubicación: "+locationID, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de resúmenes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ítem", 4, align.Left),
		h("Apertura", 2, align.Right),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Remanente", 2, align.Right),
	)
}

// summaryRow: una fila por (ítem, ubicación) con sus cuatro cantidades.
func summaryRow(itemID string, s dto.StockSummary) core.Row {
	cell := func(v int64, size int) core.Col {
		return col.New(size).Add(text.New(formatQty(v), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		col.New(4).Add(text.New(itemID, props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1,
		})),
		cell(s.OpeningStock, 2),
		cell(s.Incoming, 2),
		cell(s.Outgoing, 2),
		cell(s.Remainder, 2),
	)
}

// footerRow: leyenda con el momento de generación.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Generado el "+time.Now().Format("02/01/2006 15:04")+
				". Las cantidades reflejan el libro de movimientos del día consolidado.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

func formatQty(n int64) string {
	return strconv.FormatInt(n, 10)
}
