package repository

import (
	"context"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SolicitudRepository cubre la vista hidratada (objetos completos con sus
// ofertas) del motor de ciclo de vida. La proyección plana de exportación
// vive aparte en ExportRepository.
type SolicitudRepository interface {
	Create(ctx context.Context, s *model.Solicitud) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Solicitud, error)
	// FindByIDs carga varias solicitudes de una vez (sin ofertas) para
	// enriquecer lecturas sin una consulta por fila.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Solicitud, error)
	Update(ctx context.Context, s *model.Solicitud) error
	List(ctx context.Context, filter dto.SolicitudFilter) ([]model.Solicitud, int64, error)
	ListByEstudiante(ctx context.Context, estudianteID uuid.UUID, filter dto.SolicitudFilter) ([]model.Solicitud, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByEstado(ctx context.Context, estado model.EstadoSolicitud) (int64, error)

	// FindForUpdateTx bloquea la fila de la solicitud dentro de la transacción
	// del llamador, de modo que dos AceptarOferta concurrentes se serialicen y
	// el segundo observe Estado≠Abierta.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Solicitud, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoSolicitud) error

	DB() *gorm.DB
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) Create(ctx context.Context, s *model.Solicitud) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Solicitud, error) {
	var s model.Solicitud
	err := r.db.WithContext(ctx).Preload("Ofertas").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *solicitudRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Solicitud, error) {
	result := make(map[uuid.UUID]model.Solicitud, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var solicitudes []model.Solicitud
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&solicitudes).Error; err != nil {
		return nil, err
	}
	for _, s := range solicitudes {
		result[s.ID] = s
	}
	return result, nil
}

func (r *solicitudRepo) Update(ctx context.Context, s *model.Solicitud) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *solicitudRepo) applyFilter(ctx context.Context, filter dto.SolicitudFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Solicitud{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Materia != "" {
		q = q.Where("materia = ?", filter.Materia)
	}
	return q
}

// List devuelve una página de solicitudes hidratadas con sus ofertas para la
// vista interactiva, junto con el total de registros del filtro.
func (r *solicitudRepo) List(ctx context.Context, filter dto.SolicitudFilter) ([]model.Solicitud, int64, error) {
	q := r.applyFilter(ctx, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var solicitudes []model.Solicitud
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Ofertas").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&solicitudes).Error
	return solicitudes, total, err
}

func (r *solicitudRepo) ListByEstudiante(ctx context.Context, estudianteID uuid.UUID, filter dto.SolicitudFilter) ([]model.Solicitud, int64, error) {
	q := r.applyFilter(ctx, filter).Where("estudiante_id = ?", estudianteID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var solicitudes []model.Solicitud
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Ofertas").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&solicitudes).Error
	return solicitudes, total, err
}

func (r *solicitudRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Solicitud{}).Count(&total).Error
	return total, err
}

func (r *solicitudRepo) CountByEstado(ctx context.Context, estado model.EstadoSolicitud) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Solicitud{}).Where("estado = ?", estado).Count(&total).Error
	return total, err
}

func (r *solicitudRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Solicitud, error) {
	q := tx
	// sqlite no soporta SELECT ... FOR UPDATE; su escritor único ya serializa.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.Solicitud
	if err := q.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *solicitudRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoSolicitud) error {
	return tx.Model(&model.Solicitud{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *solicitudRepo) DB() *gorm.DB { return r.db }
