package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/infra"
	"github.com/Cabral2104/backend-asesorias/internal/repository"
)

const (
	// exportBatchSize filas por lote de lectura keyset.
	exportBatchSize = 1000
	// pdfMaxRows acota el resumen PDF; al llegar al tope se anota el recorte.
	pdfMaxRows = 1000
)

// ExportService produce el mismo conjunto lógico de filas en cuatro formas:
// CSV, JSON y XML en streaming por lotes (nunca materializa el resultado
// completo en memoria) y un resumen PDF acotado. Solo lee estado confirmado.
type ExportService interface {
	StreamCSV(ctx context.Context, estado string, w io.Writer) error
	StreamJSON(ctx context.Context, estado string, w io.Writer) error
	StreamXML(ctx context.Context, estado string, w io.Writer) error
	GenerarPDF(ctx context.Context, estado string) ([]byte, error)
}

type exportService struct {
	repo      repository.ExportRepository
	batchSize int
}

func NewExportService(repo repository.ExportRepository) ExportService {
	return &exportService{repo: repo, batchSize: exportBatchSize}
}

// forEachBatch recorre la proyección en lotes de tamaño fijo ordenados por
// (created_at DESC, id DESC); el cursor keyset garantiza que ninguna fila se
// duplica ni se pierde entre lotes. No se retiene ningún bloqueo entre lotes.
func (s *exportService) forEachBatch(ctx context.Context, estado string, fn func(rows []dto.SolicitudExportRow) error) error {
	var cursor *repository.ExportCursor
	for {
		rows, err := s.repo.FetchBatch(ctx, estado, cursor, s.batchSize)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := fn(rows); err != nil {
			return err
		}
		if len(rows) < s.batchSize {
			return nil
		}
		last := rows[len(rows)-1]
		cursor = &repository.ExportCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
}

func (s *exportService) StreamCSV(ctx context.Context, estado string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Owner ID", "Topic", "Description", "State", "Created", "OfferCount"}); err != nil {
		return err
	}
	err := s.forEachBatch(ctx, estado, func(rows []dto.SolicitudExportRow) error {
		for _, r := range rows {
			record := []string{
				r.ID.String(),
				r.EstudianteID.String(),
				r.Tema,
				r.Descripcion,
				r.Estado,
				r.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatInt(r.TotalOfertas, 10),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// exportRowJSON fija el contrato del elemento JSON; el timestamp viaja en
// ISO-8601.
type exportRowJSON struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Topic      string `json:"topic"`
	State      string `json:"state"`
	Created    string `json:"created"`
	OfferCount int64  `json:"offer_count"`
}

func (s *exportService) StreamJSON(ctx context.Context, estado string, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	first := true
	err := s.forEachBatch(ctx, estado, func(rows []dto.SolicitudExportRow) error {
		for _, r := range rows {
			elem, err := json.Marshal(exportRowJSON{
				ID:         r.ID.String(),
				OwnerID:    r.EstudianteID.String(),
				Topic:      r.Tema,
				State:      r.Estado,
				Created:    r.CreatedAt.UTC().Format(time.RFC3339),
				OfferCount: r.TotalOfertas,
			})
			if err != nil {
				return err
			}
			if !first {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			first = false
			if _, err := w.Write(elem); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "]")
	return err
}

// solicitudXML es el elemento hijo de <solicitudes>; encoding/xml escapa el
// texto libre (tema) automáticamente.
type solicitudXML struct {
	XMLName      xml.Name `xml:"solicitud"`
	ID           string   `xml:"id,attr"`
	EstudianteID string   `xml:"estudiante_id"`
	Tema         string   `xml:"tema"`
	Estado       string   `xml:"estado"`
	Fecha        string   `xml:"fecha"`
	Ofertas      int64    `xml:"ofertas"`
}

func (s *exportService) StreamXML(ctx context.Context, estado string, w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header+"<solicitudes>"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	err := s.forEachBatch(ctx, estado, func(rows []dto.SolicitudExportRow) error {
		for _, r := range rows {
			elem := solicitudXML{
				ID:           r.ID.String(),
				EstudianteID: r.EstudianteID.String(),
				Tema:         r.Tema,
				Estado:       r.Estado,
				Fecha:        r.CreatedAt.UTC().Format(time.RFC3339),
				Ofertas:      r.TotalOfertas,
			}
			if err := enc.Encode(elem); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</solicitudes>")
	return err
}

// GenerarPDF lee a lo sumo pdfMaxRows filas de la misma proyección y delega
// el histograma por estado, la gráfica de barras y el listado al renderer.
func (s *exportService) GenerarPDF(ctx context.Context, estado string) ([]byte, error) {
	rows := make([]dto.SolicitudExportRow, 0, s.batchSize)
	err := s.forEachBatch(ctx, estado, func(batch []dto.SolicitudExportRow) error {
		rows = append(rows, batch...)
		if len(rows) > pdfMaxRows {
			return errPDFLleno
		}
		return nil
	})
	if err != nil && err != errPDFLleno {
		return nil, err
	}
	// El aviso de recorte solo aparece cuando de verdad quedaron filas fuera.
	truncado := len(rows) > pdfMaxRows
	if truncado {
		rows = rows[:pdfMaxRows]
	}
	return infra.GenerarResumenPDF(rows, estado, truncado)
}

// errPDFLleno corta la iteración de lotes al alcanzar el tope del resumen.
var errPDFLleno = fmt.Errorf("resumen pdf completo")
