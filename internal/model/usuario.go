package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rol identifica el tipo de cuenta. Tipado para que las comparaciones de rol
// sean contra constantes y no contra strings sueltos.
type Rol string

const (
	RolEstudiante    Rol = "Estudiante"
	RolAsesor        Rol = "Asesor"
	RolAdministrador Rol = "Administrador"
)

// PuedeOfertar indica si el rol está habilitado para enviar ofertas.
func (r Rol) PuedeOfertar() bool { return r == RolAsesor }

// Usuario es la cuenta del sistema. El rol solo cambia cuando un administrador
// aprueba una PostulacionAsesor; nunca se borra físicamente.
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	NombreCompleto string    `gorm:"size:100;not null"`
	Email          string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash   string    `gorm:"size:200;not null"`
	Rol            Rol       `gorm:"type:varchar(20);not null;default:'Estudiante'"`
	Auditoria
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
