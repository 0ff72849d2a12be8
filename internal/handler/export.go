package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ExportHandler expone la misma proyección de solicitudes en cuatro formatos
// descargables. CSV/JSON/XML se emiten en streaming por lotes directamente
// sobre el writer de la respuesta; el PDF es un resumen acotado.
type ExportHandler struct{ svc service.ExportService }

func NewExportHandler(svc service.ExportService) *ExportHandler { return &ExportHandler{svc: svc} }

// Solicitudes godoc
// @Summary      Exportar solicitudes
// @Description  Descarga la proyección de solicitudes como csv, json, xml o pdf, con filtro opcional por estado.
// @Tags         admin
// @Produce      text/csv
// @Produce      json
// @Produce      xml
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        formato path  string true  "csv | json | xml | pdf"
// @Param        estado  query string false "Filtro por estado"
// @Success      200
// @Failure      400 {object} apierror.APIError
// @Router       /admin/export/solicitudes/{formato} [get]
func (h *ExportHandler) Solicitudes(c *gin.Context) {
	formato := c.Param("formato")
	estado := c.Query("estado")

	nombre := "todas"
	if estado != "" {
		nombre = estado
	}

	switch formato {
	case "csv":
		h.stream(c, "text/csv", fmt.Sprintf("solicitudes_%s.csv", nombre), h.svc.StreamCSV, estado)
	case "json":
		h.stream(c, "application/json", fmt.Sprintf("solicitudes_%s.json", nombre), h.svc.StreamJSON, estado)
	case "xml":
		h.stream(c, "application/xml", fmt.Sprintf("solicitudes_%s.xml", nombre), h.svc.StreamXML, estado)
	case "pdf":
		datos, err := h.svc.GenerarPDF(c.Request.Context(), estado)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="solicitudes_%s.pdf"`, nombre))
		c.Data(http.StatusOK, "application/pdf", datos)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Formato no soportado: use csv, json, xml o pdf"))
	}
}

type streamFn func(ctx context.Context, estado string, w io.Writer) error

func (h *ExportHandler) stream(c *gin.Context, contentType, filename string, fn streamFn, estado string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	// Los encabezados ya viajaron: un fallo a mitad del stream solo puede
	// registrarse y cortar la conexión.
	if err := fn(c.Request.Context(), estado, c.Writer); err != nil {
		log.Error().Err(err).Str("formato", contentType).Msg("export stream aborted")
		c.Abort()
	}
}
