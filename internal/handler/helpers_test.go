package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sirviendo(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/x", handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRespondError_ErrorDeDominio(t *testing.T) {
	w := sirviendo(func(c *gin.Context) {
		respondError(c, apierror.Conflict("ya existe"))
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ya existe", body.Detail)
}

func TestRespondError_ErrorInterno_UnSoloCuerpo(t *testing.T) {
	w := sirviendo(func(c *gin.Context) {
		respondError(c, errors.New("fallo de base de datos"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Un único objeto JSON válido, sin el detalle interno del error.
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error interno del servidor", body.Detail)
	assert.NotContains(t, w.Body.String(), "fallo de base de datos")
}
