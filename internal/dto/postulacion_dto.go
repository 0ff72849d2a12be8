package dto

type PostulacionRequest struct {
	NivelEstudios string `json:"nivel_estudios" validate:"required,max=50"`
	Institucion   string `json:"institucion"    validate:"required,max=100"`
	Especialidad  string `json:"especialidad"   validate:"required,max=100"`
	Experiencia   string `json:"experiencia"    validate:"required"`
	DocumentoURL  string `json:"documento_url"  validate:"required,url,max=255"`
}

type PostulacionResponse struct {
	ID            string `json:"id"`
	UsuarioID     string `json:"usuario_id"`
	NivelEstudios string `json:"nivel_estudios"`
	Institucion   string `json:"institucion"`
	Especialidad  string `json:"especialidad"`
	Experiencia   string `json:"experiencia"`
	DocumentoURL  string `json:"documento_url"`
	Estado        string `json:"estado"`
	CreatedAt     string `json:"created_at"`
}

// ResolverPostulacionRequest: aprobada=true promueve el rol del usuario a
// Asesor en la misma transacción.
type ResolverPostulacionRequest struct {
	Aprobada *bool `json:"aprobada" validate:"required"`
}

type ResolverPostulacionResponse struct {
	Mensaje string `json:"mensaje"`
}

// StatsResponse alimenta las gráficas del dashboard de administración.
type StatsResponse struct {
	Usuarios           int64 `json:"usuarios"`
	SolicitudesTotal   int64 `json:"solicitudes_total"`
	SolicitudesActivas int64 `json:"solicitudes_activas"`
}
