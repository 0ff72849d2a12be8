package dto

import (
	"time"

	"github.com/google/uuid"
)

// SolicitudExportRow es la proyección plana usada por el pipeline de
// exportación. Selecciona solo las columnas necesarias y cuenta las ofertas
// con una subconsulta correlacionada, de modo que escala a la tabla completa
// sin hidratar colecciones relacionadas (sin fan-out N+1 por fila).
//
// Es deliberadamente una forma de consulta distinta a la vista paginada
// interactiva, que sí carga objetos completos con sus ofertas.
type SolicitudExportRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	EstudianteID uuid.UUID `gorm:"column:estudiante_id"`
	Tema         string    `gorm:"column:tema"`
	Descripcion  string    `gorm:"column:descripcion"`
	Estado       string    `gorm:"column:estado"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	TotalOfertas int64     `gorm:"column:total_ofertas"`
}
