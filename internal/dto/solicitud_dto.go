package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearSolicitudRequest struct {
	Materia     string     `json:"materia"      validate:"required,max=50"`
	Tema        string     `json:"tema"         validate:"required,max=100"`
	Descripcion string     `json:"descripcion"  validate:"required"`
	FechaLimite *time.Time `json:"fecha_limite" validate:"omitempty"`
	ArchivoURL  *string    `json:"archivo_url"  validate:"omitempty,url,max=255"`
}

// EditarSolicitudRequest sobrescribe los campos mutables; solo válido con la
// solicitud Abierta.
type EditarSolicitudRequest = CrearSolicitudRequest

// SolicitudFilter is bound from the query string of paginated listings.
type SolicitudFilter struct {
	Estado  string `form:"estado"`
	Materia string `form:"materia"`
	Page    int    `form:"page,default=1"`
	Limit   int    `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SolicitudResponse struct {
	ID           string     `json:"id"`
	EstudianteID string     `json:"estudiante_id"`
	Materia      string     `json:"materia"`
	Tema         string     `json:"tema"`
	Descripcion  string     `json:"descripcion"`
	FechaLimite  *time.Time `json:"fecha_limite,omitempty"`
	ArchivoURL   *string    `json:"archivo_url,omitempty"`
	Estado       string     `json:"estado"`
	CreatedAt    string     `json:"created_at"`
	// ContactoMatch es el email del asesor aceptado; solo presente tras el match.
	ContactoMatch *string          `json:"contacto_match,omitempty"`
	Ofertas       []OfertaResponse `json:"ofertas"`
}

type SolicitudListResponse struct {
	Data       []SolicitudResponse `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}
