package repository

import (
	"context"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportCursor marca el último registro leído de un lote. El siguiente lote
// continúa estrictamente después de (CreatedAt, ID) en orden descendente, de
// modo que ninguna fila se duplica ni se pierde entre lotes aunque la tabla
// mute durante la exportación.
type ExportCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// ExportRepository es la ruta de lectura masiva del pipeline de exportación:
// proyección plana, lotes por keyset, sin bloqueos entre lotes. No escribe.
type ExportRepository interface {
	FetchBatch(ctx context.Context, estado string, cursor *ExportCursor, limit int) ([]dto.SolicitudExportRow, error)
}

type exportRepo struct{ db *gorm.DB }

func NewExportRepository(db *gorm.DB) ExportRepository { return &exportRepo{db: db} }

func (r *exportRepo) FetchBatch(ctx context.Context, estado string, cursor *ExportCursor, limit int) ([]dto.SolicitudExportRow, error) {
	q := r.db.WithContext(ctx).
		Table("solicitudes").
		Select(`solicitudes.id, solicitudes.estudiante_id, solicitudes.tema,
			solicitudes.descripcion, solicitudes.estado, solicitudes.created_at,
			(SELECT COUNT(*) FROM ofertas WHERE ofertas.solicitud_id = solicitudes.id) AS total_ofertas`)

	if estado != "" {
		q = q.Where("solicitudes.estado = ?", estado)
	}
	if cursor != nil {
		q = q.Where(
			"(solicitudes.created_at < ?) OR (solicitudes.created_at = ? AND solicitudes.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []dto.SolicitudExportRow
	err := q.Order("solicitudes.created_at DESC, solicitudes.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
