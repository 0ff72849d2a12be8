package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Cabral2104/backend-asesorias/internal/config"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/infra"
	"github.com/Cabral2104/backend-asesorias/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))

	cfg := &config.Config{
		Env:                "production",
		JWTSecret:          "secreto-de-pruebas",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
	}
	return New(cfg, db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registrarYLogin(t *testing.T, r *gin.Engine, nombre, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"nombre_completo": nombre,
		"email":           email,
		"password":        "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return login(t, r, email)
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

// sembrarUsuario inserta directo en la tabla, útil para roles que el registro
// público nunca asigna.
func sembrarUsuario(t *testing.T, db *gorm.DB, nombre, email string, rol model.Rol) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		NombreCompleto: nombre,
		Email:          email,
		PasswordHash:   string(hash),
		Rol:            rol,
		Auditoria:      model.Auditoria{Activo: true},
	}).Error)
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFlujoEstudianteAsesor(t *testing.T) {
	r, db := setupRouter(t)

	tokenEstudiante := registrarYLogin(t, r, "Ana Torres", "ana@test.local")
	sembrarUsuario(t, db, "Luis Mora", "luis@test.local", model.RolAsesor)
	tokenAsesor := login(t, r, "luis@test.local")

	// El estudiante publica una solicitud.
	w := doJSON(t, r, http.MethodPost, "/estudiantes/solicitudes", tokenEstudiante, gin.H{
		"materia":     "Cálculo",
		"tema":        "Integrales dobles",
		"descripcion": "Repaso antes del parcial",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var solicitud dto.SolicitudResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &solicitud))

	// El asesor la ve en el mercado y oferta.
	w = doJSON(t, r, http.MethodGet, "/asesores/mercado", tokenAsesor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mercado dto.SolicitudListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mercado))
	require.Len(t, mercado.Data, 1)

	w = doJSON(t, r, http.MethodPost, "/asesores/solicitudes/"+solicitud.ID+"/ofertar", tokenAsesor, gin.H{
		"precio":  "150.00",
		"mensaje": "Puedo ayudarte con este tema",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var oferta dto.OfertaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &oferta))

	// Un estudiante no pasa el corte de rol para ofertar.
	w = doJSON(t, r, http.MethodPost, "/asesores/solicitudes/"+solicitud.ID+"/ofertar", tokenEstudiante, gin.H{
		"precio":  "99.00",
		"mensaje": "Yo también quiero ofertar",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// El dueño acepta la oferta y luego finaliza.
	w = doJSON(t, r, http.MethodPut,
		"/estudiantes/solicitudes/"+solicitud.ID+"/aceptar-oferta/"+oferta.ID, tokenEstudiante, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/estudiantes/solicitudes/"+solicitud.ID+"/finalizar", tokenEstudiante, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/estudiantes/mis-solicitudes", tokenEstudiante, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mis dto.SolicitudListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mis))
	require.Len(t, mis.Data, 1)
	assert.Equal(t, string(model.SolicitudFinalizada), mis.Data[0].Estado)
	require.NotNil(t, mis.Data[0].ContactoMatch)
	assert.Equal(t, "luis@test.local", *mis.Data[0].ContactoMatch)
}

func TestRutasProtegidas(t *testing.T) {
	r, db := setupRouter(t)
	sembrarUsuario(t, db, "Luis Mora", "luis@test.local", model.RolAsesor)
	tokenAsesor := login(t, r, "luis@test.local")

	// Sin token no hay acceso.
	w := doJSON(t, r, http.MethodGet, "/estudiantes/mis-solicitudes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Con token pero sin rol de administrador tampoco.
	w = doJSON(t, r, http.MethodGet, "/admin/stats", tokenAsesor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Credenciales malas responden 401 con el envoltorio estándar.
	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "luis@test.local",
		"password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "credenciales invalidas")
}

func TestAdminResolverPostulacionYStats(t *testing.T) {
	r, db := setupRouter(t)
	sembrarUsuario(t, db, "Root Admin", "admin@test.local", model.RolAdministrador)
	tokenAdmin := login(t, r, "admin@test.local")
	tokenEstudiante := registrarYLogin(t, r, "Ana Torres", "ana@test.local")

	w := doJSON(t, r, http.MethodPost, "/estudiantes/postulacion", tokenEstudiante, gin.H{
		"nivel_estudios": "Maestría",
		"institucion":    "UNAM",
		"especialidad":   "Matemáticas aplicadas",
		"experiencia":    "3 años dando asesorías",
		"documento_url":  "https://files.test.local/titulo.pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var postulacion dto.PostulacionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &postulacion))

	w = doJSON(t, r, http.MethodGet, "/admin/postulaciones", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/admin/postulaciones/"+postulacion.ID+"/resolver", tokenAdmin, gin.H{
		"aprobada": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Re-resolver no es válido.
	w = doJSON(t, r, http.MethodPut, "/admin/postulaciones/"+postulacion.ID+"/resolver", tokenAdmin, gin.H{
		"aprobada": false,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// El usuario promovido ya puede usar las rutas de asesor.
	var usuario model.Usuario
	require.NoError(t, db.First(&usuario, "email = ?", "ana@test.local").Error)
	assert.Equal(t, model.RolAsesor, usuario.Rol)

	w = doJSON(t, r, http.MethodGet, "/admin/stats", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats dto.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Usuarios)
}

func TestExportEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	sembrarUsuario(t, db, "Root Admin", "admin@test.local", model.RolAdministrador)
	tokenAdmin := login(t, r, "admin@test.local")
	tokenEstudiante := registrarYLogin(t, r, "Ana Torres", "ana@test.local")

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/estudiantes/solicitudes", tokenEstudiante, gin.H{
			"materia":     "Cálculo",
			"tema":        fmt.Sprintf("Tema %d", i),
			"descripcion": "descripción",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodGet, "/admin/export/solicitudes/csv", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "solicitudes_todas.csv")
	assert.Len(t, strings.Split(strings.TrimSpace(w.Body.String()), "\n"), 4) // encabezado + 3 filas

	w = doJSON(t, r, http.MethodGet, "/admin/export/solicitudes/json?estado=Abierta", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var filas []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filas))
	assert.Len(t, filas, 3)

	w = doJSON(t, r, http.MethodGet, "/admin/export/solicitudes/pdf", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	// Formato desconocido.
	w = doJSON(t, r, http.MethodGet, "/admin/export/solicitudes/yaml", tokenAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// La exportación es solo de administración.
	w = doJSON(t, r, http.MethodGet, "/admin/export/solicitudes/csv", tokenEstudiante, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaginacionAdminSolicitudes(t *testing.T) {
	r, db := setupRouter(t)
	sembrarUsuario(t, db, "Root Admin", "admin@test.local", model.RolAdministrador)
	tokenAdmin := login(t, r, "admin@test.local")
	tokenEstudiante := registrarYLogin(t, r, "Ana Torres", "ana@test.local")

	for i := 0; i < 7; i++ {
		w := doJSON(t, r, http.MethodPost, "/estudiantes/solicitudes", tokenEstudiante, gin.H{
			"materia":     "Cálculo",
			"tema":        fmt.Sprintf("Tema %d", i),
			"descripcion": "descripción",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/admin/solicitudes?page=2&limit=3", tokenAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lista dto.SolicitudListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lista))
	assert.Equal(t, int64(7), lista.Total)
	assert.Equal(t, 3, lista.TotalPages)
	assert.Equal(t, 2, lista.Page)
	assert.Len(t, lista.Data, 3)
}
