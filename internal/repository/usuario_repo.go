package repository

import (
	"context"
	"errors"

	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioRepository es la frontera con el almacén de identidades. Los
// servicios dependen de esta interfaz, no de GORM, para poder testearse con
// implementaciones en memoria o sqlite.
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	// FindByIDs carga varios usuarios de una vez para enriquecer lecturas
	// (nombre del asesor, contacto) sin una consulta por fila.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Usuario, error)
	Count(ctx context.Context) (int64, error)

	// UpdateRolTx promueve el rol dentro de la transacción del llamador.
	UpdateRolTx(tx *gorm.DB, id uuid.UUID, rol model.Rol) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Usuario, error) {
	result := make(map[uuid.UUID]model.Usuario, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var usuarios []model.Usuario
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&usuarios).Error; err != nil {
		return nil, err
	}
	for _, u := range usuarios {
		result[u.ID] = u
	}
	return result, nil
}

func (r *usuarioRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&total).Error
	return total, err
}

func (r *usuarioRepo) UpdateRolTx(tx *gorm.DB, id uuid.UUID, rol model.Rol) error {
	res := tx.Model(&model.Usuario{}).Where("id = ?", id).Update("rol", rol)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

// IsNotFound reporta si err corresponde a un registro inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
