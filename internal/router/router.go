package router

import (
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/config"
	"github.com/Cabral2104/backend-asesorias/internal/handler"
	"github.com/Cabral2104/backend-asesorias/internal/middleware"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"
	"github.com/Cabral2104/backend-asesorias/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	ofertaRepo := repository.NewOfertaRepository(db)
	postulacionRepo := repository.NewPostulacionRepository(db)
	exportRepo := repository.NewExportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	solicitudSvc := service.NewSolicitudService(solicitudRepo, ofertaRepo, usuarioRepo)
	ofertaSvc := service.NewOfertaService(ofertaRepo, solicitudRepo, usuarioRepo)
	postulacionSvc := service.NewPostulacionService(postulacionRepo, usuarioRepo)
	adminSvc := service.NewAdminService(usuarioRepo, solicitudRepo)
	exportSvc := service.NewExportService(exportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	estudiantesH := handler.NewEstudiantesHandler(solicitudSvc, postulacionSvc)
	asesoresH := handler.NewAsesoresHandler(solicitudSvc, ofertaSvc)
	adminH := handler.NewAdminHandler(postulacionSvc, solicitudSvc, adminSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))

	auth := r.Group("/auth")
	{
		auth.POST("/register", authH.Registro)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	estudiantes := r.Group("/estudiantes", jwtMW)
	{
		// La propiedad de cada solicitud se valida en el servicio contra el
		// estudiante del token, no con un permiso aparte.
		estudiantes.POST("/solicitudes", estudiantesH.CrearSolicitud)
		estudiantes.GET("/mis-solicitudes", estudiantesH.MisSolicitudes)
		estudiantes.PUT("/solicitudes/:id", estudiantesH.EditarSolicitud)
		estudiantes.DELETE("/solicitudes/:id", estudiantesH.CancelarSolicitud)
		estudiantes.PUT("/solicitudes/:id/aceptar-oferta/:oferta_id", estudiantesH.AceptarOferta)
		estudiantes.PUT("/solicitudes/:id/finalizar", estudiantesH.FinalizarSolicitud)
		estudiantes.POST("/postulacion", estudiantesH.Postularse)
	}

	asesores := r.Group("/asesores", jwtMW)
	{
		asesores.GET("/mercado", asesoresH.Mercado)
		asesores.GET("/mis-ofertas", asesoresH.MisOfertas)
		// El servicio repite la verificación de rol; el middleware corta antes.
		asesores.POST("/solicitudes/:id/ofertar",
			middleware.RequireRole(model.RolAsesor), asesoresH.Ofertar)
	}

	admin := r.Group("/admin", jwtMW, middleware.RequireRole(model.RolAdministrador))
	{
		admin.GET("/postulaciones", adminH.Postulaciones)
		admin.PUT("/postulaciones/:id/resolver", adminH.ResolverPostulacion)
		admin.GET("/stats", adminH.Stats)
		admin.GET("/solicitudes", adminH.Solicitudes)
		admin.GET("/export/solicitudes/:formato", exportH.Solicitudes)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
