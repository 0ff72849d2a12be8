package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstadoPostulacion: Pendiente → Aprobado | Rechazado. Se resuelve una sola vez.
type EstadoPostulacion string

const (
	PostulacionPendiente EstadoPostulacion = "Pendiente"
	PostulacionAprobada  EstadoPostulacion = "Aprobado"
	PostulacionRechazada EstadoPostulacion = "Rechazado"
)

// PostulacionAsesor es la solicitud de un estudiante para convertirse en
// asesor. Un usuario puede postularse a lo sumo una vez; aprobarla promueve
// su rol a Asesor en la misma transacción.
type PostulacionAsesor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Usuario   *Usuario  `gorm:"foreignKey:UsuarioID"`

	NivelEstudios string `gorm:"size:50"`
	Institucion   string `gorm:"size:100"`
	Especialidad  string `gorm:"size:100"`
	Experiencia   string `gorm:"type:text"`
	DocumentoURL  string `gorm:"size:255"`

	Estado EstadoPostulacion `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	Auditoria
}

func (PostulacionAsesor) TableName() string { return "postulaciones_asesor" }

func (p *PostulacionAsesor) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
