package handler

import (
	"net/http"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler cubre la capa de administración: resolución de postulaciones,
// stats del dashboard y la vista paginada de solicitudes.
type AdminHandler struct {
	postulaciones service.PostulacionService
	solicitudes   service.SolicitudService
	admin         service.AdminService
}

func NewAdminHandler(postulaciones service.PostulacionService, solicitudes service.SolicitudService, admin service.AdminService) *AdminHandler {
	return &AdminHandler{postulaciones: postulaciones, solicitudes: solicitudes, admin: admin}
}

// Postulaciones godoc
// @Summary      Listar postulaciones pendientes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PostulacionResponse
// @Router       /admin/postulaciones [get]
func (h *AdminHandler) Postulaciones(c *gin.Context) {
	resp, err := h.postulaciones.Pendientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolverPostulacion godoc
// @Summary      Aprobar o rechazar una postulación
// @Description  Aprobar promueve el rol del usuario a Asesor en la misma transacción. Cada postulación se resuelve una sola vez.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la postulación"
// @Param        body body dto.ResolverPostulacionRequest true "Decisión"
// @Success      200  {object} dto.ResolverPostulacionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /admin/postulaciones/{id}/resolver [put]
func (h *AdminHandler) ResolverPostulacion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ResolverPostulacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.postulaciones.Resolver(c.Request.Context(), id, *req.Aprobada)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Conteos para el dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.StatsResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	resp, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Solicitudes godoc
// @Summary      Vista paginada de solicitudes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "Filtro por estado"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (1-100)"
// @Success      200    {object} dto.SolicitudListResponse
// @Router       /admin/solicitudes [get]
func (h *AdminHandler) Solicitudes(c *gin.Context) {
	var filter dto.SolicitudFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.solicitudes.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
