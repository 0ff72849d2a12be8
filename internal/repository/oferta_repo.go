package repository

import (
	"context"

	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfertaRepository interface {
	Create(ctx context.Context, o *model.Oferta) error
	FindBySolicitudAndAsesor(ctx context.Context, solicitudID, asesorID uuid.UUID) (*model.Oferta, error)
	ListByAsesor(ctx context.Context, asesorID uuid.UUID) ([]model.Oferta, error)

	// Usadas dentro de transacciones — el llamador pasa la instancia tx.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Oferta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoOferta) error
	// RechazarHermanasTx pasa a Rechazada toda oferta pendiente de la
	// solicitud salvo la ganadora.
	RechazarHermanasTx(tx *gorm.DB, solicitudID, ganadoraID uuid.UUID) error
	// FindAceptadaTx devuelve la oferta Aceptada de la solicitud, si existe.
	FindAceptadaTx(tx *gorm.DB, solicitudID uuid.UUID) (*model.Oferta, error)
}

type ofertaRepo struct{ db *gorm.DB }

func NewOfertaRepository(db *gorm.DB) OfertaRepository { return &ofertaRepo{db: db} }

func (r *ofertaRepo) Create(ctx context.Context, o *model.Oferta) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ofertaRepo) FindBySolicitudAndAsesor(ctx context.Context, solicitudID, asesorID uuid.UUID) (*model.Oferta, error) {
	var o model.Oferta
	err := r.db.WithContext(ctx).
		Where("solicitud_id = ? AND asesor_id = ?", solicitudID, asesorID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ofertaRepo) ListByAsesor(ctx context.Context, asesorID uuid.UUID) ([]model.Oferta, error) {
	var ofertas []model.Oferta
	err := r.db.WithContext(ctx).
		Where("asesor_id = ?", asesorID).
		Order("created_at DESC").
		Find(&ofertas).Error
	return ofertas, err
}

func (r *ofertaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Oferta, error) {
	var o model.Oferta
	if err := tx.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ofertaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoOferta) error {
	return tx.Model(&model.Oferta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ofertaRepo) RechazarHermanasTx(tx *gorm.DB, solicitudID, ganadoraID uuid.UUID) error {
	return tx.Model(&model.Oferta{}).
		Where("solicitud_id = ? AND id <> ? AND estado = ?", solicitudID, ganadoraID, model.OfertaPendiente).
		Update("estado", model.OfertaRechazada).Error
}

func (r *ofertaRepo) FindAceptadaTx(tx *gorm.DB, solicitudID uuid.UUID) (*model.Oferta, error) {
	var o model.Oferta
	err := tx.Where("solicitud_id = ? AND estado = ?", solicitudID, model.OfertaAceptada).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
