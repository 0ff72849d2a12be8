package repository

import (
	"context"

	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostulacionRepository interface {
	Create(ctx context.Context, p *model.PostulacionAsesor) error
	FindByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.PostulacionAsesor, error)
	ListByEstado(ctx context.Context, estado model.EstadoPostulacion) ([]model.PostulacionAsesor, error)

	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PostulacionAsesor, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPostulacion) error

	DB() *gorm.DB
}

type postulacionRepo struct{ db *gorm.DB }

func NewPostulacionRepository(db *gorm.DB) PostulacionRepository { return &postulacionRepo{db: db} }

func (r *postulacionRepo) Create(ctx context.Context, p *model.PostulacionAsesor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postulacionRepo) FindByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.PostulacionAsesor, error) {
	var p model.PostulacionAsesor
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postulacionRepo) ListByEstado(ctx context.Context, estado model.EstadoPostulacion) ([]model.PostulacionAsesor, error) {
	var postulaciones []model.PostulacionAsesor
	err := r.db.WithContext(ctx).
		Where("estado = ?", estado).
		Order("created_at ASC").
		Find(&postulaciones).Error
	return postulaciones, err
}

func (r *postulacionRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PostulacionAsesor, error) {
	var p model.PostulacionAsesor
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postulacionRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPostulacion) error {
	return tx.Model(&model.PostulacionAsesor{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *postulacionRepo) DB() *gorm.DB { return r.db }
