package handler

import (
	"net/http"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/service"

	"github.com/gin-gonic/gin"
)

// AsesoresHandler cubre el mercado de solicitudes abiertas y las ofertas.
type AsesoresHandler struct {
	solicitudes service.SolicitudService
	ofertas     service.OfertaService
}

func NewAsesoresHandler(solicitudes service.SolicitudService, ofertas service.OfertaService) *AsesoresHandler {
	return &AsesoresHandler{solicitudes: solicitudes, ofertas: ofertas}
}

// Mercado godoc
// @Summary      Ver solicitudes abiertas para cotizar
// @Tags         asesores
// @Produce      json
// @Security     BearerAuth
// @Param        materia query string false "Filtro por materia"
// @Param        page    query int    false "Página (default 1)"
// @Param        limit   query int    false "Registros por página (1-100)"
// @Success      200     {object} dto.SolicitudListResponse
// @Router       /asesores/mercado [get]
func (h *AsesoresHandler) Mercado(c *gin.Context) {
	var filter dto.SolicitudFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.solicitudes.Mercado(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ofertar godoc
// @Summary      Enviar una oferta sobre una solicitud abierta
// @Description  Solo asesores; a lo sumo una oferta por solicitud y nunca sobre la propia.
// @Tags         asesores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la solicitud"
// @Param        body body dto.EnviarOfertaRequest true "Precio y mensaje"
// @Success      201  {object} dto.OfertaResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /asesores/solicitudes/{id}/ofertar [post]
func (h *AsesoresHandler) Ofertar(c *gin.Context) {
	asesorID, ok := callerID(c)
	if !ok {
		return
	}
	solicitudID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarOfertaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ofertas.Enviar(c.Request.Context(), solicitudID, asesorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MisOfertas godoc
// @Summary      Listar mis ofertas
// @Description  Tras un match se incluye el email de contacto del estudiante.
// @Tags         asesores
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.OfertaResponse
// @Router       /asesores/mis-ofertas [get]
func (h *AsesoresHandler) MisOfertas(c *gin.Context) {
	asesorID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.ofertas.MisOfertas(c.Request.Context(), asesorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
