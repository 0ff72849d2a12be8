package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstadoOferta modela el ciclo de vida de una oferta:
//
//	Pendiente → Aceptada → Finalizada
//	Pendiente → Rechazada
//
// Rechazada y Finalizada son terminales. A lo sumo una oferta por solicitud
// puede estar Aceptada o Finalizada.
type EstadoOferta string

const (
	OfertaPendiente  EstadoOferta = "Pendiente"
	OfertaAceptada   EstadoOferta = "Aceptada"
	OfertaRechazada  EstadoOferta = "Rechazada"
	OfertaFinalizada EstadoOferta = "Finalizada"
)

// Oferta es la cotización de un asesor sobre una solicitud. Un asesor puede
// ofertar a lo sumo una vez por solicitud (índice único compuesto).
// El nombre del asesor nunca se persiste: se deriva de usuarios al leer.
type Oferta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SolicitudID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_oferta_solicitud_asesor"`
	AsesorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_oferta_solicitud_asesor"`
	Asesor      *Usuario  `gorm:"foreignKey:AsesorID"`

	Precio  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Mensaje string          `gorm:"type:text;not null"`
	Estado  EstadoOferta    `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	Auditoria
}

func (Oferta) TableName() string { return "ofertas" }

func (o *Oferta) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
