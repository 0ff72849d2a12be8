package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstadoSolicitud modela el ciclo de vida de una solicitud de ayuda:
//
//	Abierta → EnProceso (aceptar oferta) → Finalizada
//	Abierta → Cancelada
//
// Finalizada y Cancelada son terminales.
type EstadoSolicitud string

const (
	SolicitudAbierta    EstadoSolicitud = "Abierta"
	SolicitudEnProceso  EstadoSolicitud = "EnProceso"
	SolicitudFinalizada EstadoSolicitud = "Finalizada"
	SolicitudCancelada  EstadoSolicitud = "Cancelada"
)

// EsTerminal reporta si no existen transiciones de salida.
func (e EstadoSolicitud) EsTerminal() bool {
	return e == SolicitudFinalizada || e == SolicitudCancelada
}

// Solicitud es un pedido de asesoría publicado por un estudiante.
// Solo su dueño puede editarla, cancelarla, aceptar ofertas o finalizarla.
type Solicitud struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EstudianteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estudiante   *Usuario  `gorm:"foreignKey:EstudianteID"`

	Materia     string     `gorm:"size:50;not null"`
	Tema        string     `gorm:"size:100;not null"`
	Descripcion string     `gorm:"type:text;not null"`
	FechaLimite *time.Time
	ArchivoURL  *string `gorm:"size:255"`

	Estado  EstadoSolicitud `gorm:"type:varchar(20);not null;default:'Abierta';index"`
	Ofertas []Oferta        `gorm:"foreignKey:SolicitudID"`
	Auditoria
}

func (Solicitud) TableName() string { return "solicitudes" }

func (s *Solicitud) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
