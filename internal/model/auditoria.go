package model

import "time"

// Auditoria es el sub-registro de auditoría embebido en todas las tablas.
// Activo implementa la baja lógica (nunca se borra físicamente); ModifiedAt
// se actualiza en cada escritura.
type Auditoria struct {
	Activo     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"not null"`
	ModifiedAt time.Time `gorm:"not null;autoUpdateTime"`
}
