package handler

import (
	"net/http"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/middleware"
	"github.com/Cabral2104/backend-asesorias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EstudiantesHandler agrupa las operaciones del lado estudiante: publicar y
// administrar solicitudes, aceptar ofertas y postularse como asesor.
type EstudiantesHandler struct {
	solicitudes   service.SolicitudService
	postulaciones service.PostulacionService
}

func NewEstudiantesHandler(solicitudes service.SolicitudService, postulaciones service.PostulacionService) *EstudiantesHandler {
	return &EstudiantesHandler{solicitudes: solicitudes, postulaciones: postulaciones}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// CrearSolicitud godoc
// @Summary      Publicar una solicitud de asesoría
// @Tags         estudiantes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearSolicitudRequest true "Detalle de la solicitud"
// @Success      201  {object} dto.SolicitudResponse
// @Failure      404  {object} apierror.APIError
// @Router       /estudiantes/solicitudes [post]
func (h *EstudiantesHandler) CrearSolicitud(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CrearSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.solicitudes.Crear(c.Request.Context(), estudianteID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MisSolicitudes godoc
// @Summary      Listar mis solicitudes con sus ofertas
// @Tags         estudiantes
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "Filtro por estado"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (1-100)"
// @Success      200    {object} dto.SolicitudListResponse
// @Router       /estudiantes/mis-solicitudes [get]
func (h *EstudiantesHandler) MisSolicitudes(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	var filter dto.SolicitudFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.solicitudes.MisSolicitudes(c.Request.Context(), estudianteID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditarSolicitud godoc
// @Summary      Editar una solicitud abierta propia
// @Tags         estudiantes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la solicitud"
// @Param        body body dto.CrearSolicitudRequest true "Campos mutables"
// @Success      200  {object} dto.SolicitudResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /estudiantes/solicitudes/{id} [put]
func (h *EstudiantesHandler) EditarSolicitud(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EditarSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.solicitudes.Editar(c.Request.Context(), id, estudianteID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelarSolicitud godoc
// @Summary      Cancelar una solicitud abierta propia
// @Tags         estudiantes
// @Security     BearerAuth
// @Param        id path string true "UUID de la solicitud"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /estudiantes/solicitudes/{id} [delete]
func (h *EstudiantesHandler) CancelarSolicitud(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.solicitudes.Cancelar(c.Request.Context(), id, estudianteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AceptarOferta godoc
// @Summary      Aceptar una oferta (match)
// @Description  La oferta pasa a Aceptada, la solicitud a EnProceso y las demás ofertas a Rechazada, atómicamente.
// @Tags         estudiantes
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "UUID de la solicitud"
// @Param        oferta_id path string true "UUID de la oferta"
// @Success      200 {object} map[string]string
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /estudiantes/solicitudes/{id}/aceptar-oferta/{oferta_id} [put]
func (h *EstudiantesHandler) AceptarOferta(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	solicitudID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ofertaID, ok := pathID(c, "oferta_id")
	if !ok {
		return
	}
	if err := h.solicitudes.AceptarOferta(c.Request.Context(), solicitudID, ofertaID, estudianteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Oferta aceptada exitosamente. El servicio ha comenzado."})
}

// FinalizarSolicitud godoc
// @Summary      Finalizar una solicitud en proceso
// @Description  La solicitud pasa a Finalizada y su oferta aceptada también.
// @Tags         estudiantes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la solicitud"
// @Success      200 {object} map[string]string
// @Failure      400 {object} apierror.APIError
// @Router       /estudiantes/solicitudes/{id}/finalizar [put]
func (h *EstudiantesHandler) FinalizarSolicitud(c *gin.Context) {
	estudianteID, ok := callerID(c)
	if !ok {
		return
	}
	solicitudID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.solicitudes.Finalizar(c.Request.Context(), solicitudID, estudianteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Solicitud finalizada."})
}

// Postularse godoc
// @Summary      Postularse como asesor
// @Tags         estudiantes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PostulacionRequest true "Credenciales académicas"
// @Success      201  {object} dto.PostulacionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /estudiantes/postulacion [post]
func (h *EstudiantesHandler) Postularse(c *gin.Context) {
	usuarioID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.PostulacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.postulaciones.Postularse(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
