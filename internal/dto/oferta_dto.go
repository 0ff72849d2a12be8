package dto

import "github.com/shopspring/decimal"

type EnviarOfertaRequest struct {
	Precio  decimal.Decimal `json:"precio"  validate:"required,gt=0"`
	Mensaje string          `json:"mensaje" validate:"required,min=5"`
}

type OfertaResponse struct {
	ID          string          `json:"id"`
	SolicitudID string          `json:"solicitud_id"`
	AsesorID    string          `json:"asesor_id"`
	// NombreAsesor se resuelve contra usuarios al leer; nunca se persiste.
	NombreAsesor string          `json:"nombre_asesor"`
	Precio       decimal.Decimal `json:"precio"`
	Mensaje      string          `json:"mensaje"`
	Estado       string          `json:"estado"`
	CreatedAt    string          `json:"created_at"`
	// ContactoMatch es el email del estudiante; solo visible si hay match.
	ContactoMatch *string `json:"contacto_match,omitempty"`
}
