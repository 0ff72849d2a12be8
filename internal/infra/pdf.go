package infra

// pdf.go — Resumen PDF del pipeline de exportación usando go-pdf/fpdf.
// Genera un A4 con:
//   - Encabezado con el filtro de estado aplicado
//   - Histograma por estado renderizado como gráfica de barras
//   - Listado tabular (tema truncado a 25 caracteres)
//   - Nota de recorte cuando el conteo alcanzó el tope

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/go-pdf/fpdf"
)

const temaMaxChars = 25

// ordenEstados fija el orden de las barras del histograma.
var ordenEstados = []model.EstadoSolicitud{
	model.SolicitudAbierta,
	model.SolicitudEnProceso,
	model.SolicitudFinalizada,
	model.SolicitudCancelada,
}

// GenerarResumenPDF renderiza el resumen acotado de solicitudes y devuelve
// los bytes del documento.
func GenerarResumenPDF(rows []dto.SolicitudExportRow, estadoFiltro string, truncado bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Encabezado ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Reporte de Solicitudes", "", 1, "C", false, 0, "")

	filtro := estadoFiltro
	if filtro == "" {
		filtro = "todas"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Filtro: %s  |  Generado: %s  |  Registros: %d",
		filtro, time.Now().UTC().Format("2006-01-02 15:04"), len(rows)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Histograma por estado ────────────────────────────────────────────────
	conteos := make(map[model.EstadoSolicitud]int, len(ordenEstados))
	for _, r := range rows {
		conteos[model.EstadoSolicitud(r.Estado)]++
	}
	dibujarBarras(pdf, contentW, conteos)
	pdf.Ln(6)

	// ── Listado ──────────────────────────────────────────────────────────────
	colTema := contentW * 0.40
	colEstado := contentW * 0.18
	colFecha := contentW * 0.27
	colOfertas := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colTema, 6, "Tema", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colEstado, 6, "Estado", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colFecha, 6, "Creada", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colOfertas, 6, "Ofertas", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		pdf.CellFormat(colTema, 5, truncarTema(r.Tema), "", 0, "L", false, 0, "")
		pdf.CellFormat(colEstado, 5, r.Estado, "", 0, "L", false, 0, "")
		pdf.CellFormat(colFecha, 5, r.CreatedAt.UTC().Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colOfertas, 5, fmt.Sprintf("%d", r.TotalOfertas), "", 1, "R", false, 0, "")
	}

	if truncado {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5,
			"Nota: el listado fue recortado al máximo de registros del reporte.",
			"", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// dibujarBarras pinta una barra por estado, escalada al conteo máximo.
func dibujarBarras(pdf *fpdf.Fpdf, contentW float64, conteos map[model.EstadoSolicitud]int) {
	const chartH = 45.0

	max := 1
	for _, c := range conteos {
		if c > max {
			max = c
		}
	}

	baseY := pdf.GetY() + chartH
	slotW := contentW / float64(len(ordenEstados))
	barW := slotW * 0.55

	pdf.SetFillColor(66, 133, 244)
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(15, baseY, 15+contentW, baseY)

	for i, estado := range ordenEstados {
		c := conteos[estado]
		h := chartH * float64(c) / float64(max)
		x := 15 + float64(i)*slotW + (slotW-barW)/2

		if c > 0 {
			pdf.Rect(x, baseY-h, barW, h, "F")
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(x-(slotW-barW)/2, baseY-h-5)
		pdf.CellFormat(slotW, 4, fmt.Sprintf("%d", c), "", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x-(slotW-barW)/2, baseY+1)
		pdf.CellFormat(slotW, 4, string(estado), "", 0, "C", false, 0, "")
	}
	pdf.SetY(baseY + 8)
}

func truncarTema(tema string) string {
	runes := []rune(tema)
	if len(runes) <= temaMaxChars {
		return tema
	}
	return string(runes[:temaMaxChars]) + "…"
}
