package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sembrarSolicitudes crea n solicitudes con created_at decreciente y distinto,
// para que el orden del export sea determinista.
func sembrarSolicitudes(t *testing.T, f *fixtures, estudianteID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		s := crearSolicitud(t, f.db, estudianteID, "Materia", fmt.Sprintf("Tema %03d", i))
		conCreatedAt(t, f.db, s.ID, base.Add(-time.Duration(i)*time.Minute))
		ids = append(ids, s.ID)
	}
	return ids
}

func exportSvcConLotes(f *fixtures, batchSize int) *exportService {
	return &exportService{repo: repository.NewExportRepository(f.db), batchSize: batchSize}
}

func TestExport_KeysetRecorreTodo(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	ids := sembrarSolicitudes(t, f, estudiante.ID, 12)

	// Con lotes chicos el recorrido necesita varios cursores.
	svc := exportSvcConLotes(f, 5)

	vistos := make(map[uuid.UUID]int)
	var orden []time.Time
	err := svc.forEachBatch(ctx, "", func(rows []dto.SolicitudExportRow) error {
		for _, r := range rows {
			vistos[r.ID]++
			orden = append(orden, r.CreatedAt)
		}
		return nil
	})
	require.NoError(t, err)

	// Cada fila exactamente una vez.
	require.Len(t, vistos, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, vistos[id], "fila repetida o faltante: %s", id)
	}
	// Orden created_at descendente entre lotes.
	for i := 1; i < len(orden); i++ {
		assert.False(t, orden[i].After(orden[i-1]), "orden roto en la posición %d", i)
	}
}

func TestExport_FiltroPorEstado(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	ids := sembrarSolicitudes(t, f, estudiante.ID, 6)
	for _, id := range ids[:2] {
		require.NoError(t, f.db.Model(&model.Solicitud{}).Where("id = ?", id).
			Update("estado", model.SolicitudCancelada).Error)
	}

	svc := exportSvcConLotes(f, 100)
	var total int
	err := svc.forEachBatch(ctx, string(model.SolicitudCancelada), func(rows []dto.SolicitudExportRow) error {
		total += len(rows)
		for _, r := range rows {
			assert.Equal(t, string(model.SolicitudCancelada), r.Estado)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestStreamCSV(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	asesor := crearUsuario(t, f.db, "Luis Mora", "luis@test.local", model.RolAsesor)
	ids := sembrarSolicitudes(t, f, estudiante.ID, 7)
	enviarOferta(t, f.ofertaSvc(), ids[0], asesor.ID, 100)

	var buf bytes.Buffer
	require.NoError(t, exportSvcConLotes(f, 3).StreamCSV(ctx, "", &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8) // encabezado + 7 filas
	assert.Equal(t, []string{"ID", "Owner ID", "Topic", "Description", "State", "Created", "OfferCount"}, records[0])

	// La primera fila es la más reciente e incluye su conteo de ofertas.
	assert.Equal(t, ids[0].String(), records[1][0])
	assert.Equal(t, "1", records[1][6])
	assert.Equal(t, "0", records[2][6])
}

func TestStreamJSON(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	sembrarSolicitudes(t, f, estudiante.ID, 5)

	var buf bytes.Buffer
	require.NoError(t, exportSvcConLotes(f, 2).StreamJSON(ctx, "", &buf))

	var filas []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &filas))
	require.Len(t, filas, 5)
	for _, fila := range filas {
		assert.Contains(t, fila, "id")
		assert.Contains(t, fila, "owner_id")
		assert.Contains(t, fila, "offer_count")
		_, err := time.Parse(time.RFC3339, fila["created"].(string))
		assert.NoError(t, err)
	}
}

func TestStreamJSON_SinFilas(t *testing.T) {
	f := newFixtures(t)
	var buf bytes.Buffer
	require.NoError(t, exportSvcConLotes(f, 2).StreamJSON(context.Background(), "", &buf))
	assert.Equal(t, "[]", buf.String())
}

func TestStreamXML(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	s := crearSolicitud(t, f.db, estudiante.ID, "Álgebra", "Temas <raros> & difíciles")

	var buf bytes.Buffer
	require.NoError(t, exportSvcConLotes(f, 10).StreamXML(ctx, "", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	// El texto libre viaja escapado y se recupera intacto.
	var doc struct {
		XMLName     xml.Name       `xml:"solicitudes"`
		Solicitudes []solicitudXML `xml:"solicitud"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Solicitudes, 1)
	assert.Equal(t, s.ID.String(), doc.Solicitudes[0].ID)
	assert.Equal(t, "Temas <raros> & difíciles", doc.Solicitudes[0].Tema)
}

func TestGenerarPDF(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	estudiante := crearUsuario(t, f.db, "Ana Torres", "ana@test.local", model.RolEstudiante)
	sembrarSolicitudes(t, f, estudiante.ID, 4)

	pdf, err := exportSvcConLotes(f, 2).GenerarPDF(ctx, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
