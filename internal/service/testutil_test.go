package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/infra"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB abre una base sqlite en memoria con el esquema completo.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

type fixtures struct {
	db          *gorm.DB
	usuarios    repository.UsuarioRepository
	solicitudes repository.SolicitudRepository
	ofertas     repository.OfertaRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := setupTestDB(t)
	return &fixtures{
		db:          db,
		usuarios:    repository.NewUsuarioRepository(db),
		solicitudes: repository.NewSolicitudRepository(db),
		ofertas:     repository.NewOfertaRepository(db),
	}
}

func (f *fixtures) solicitudSvc() SolicitudService {
	return NewSolicitudService(f.solicitudes, f.ofertas, f.usuarios)
}

func (f *fixtures) ofertaSvc() OfertaService {
	return NewOfertaService(f.ofertas, f.solicitudes, f.usuarios)
}

func crearUsuario(t *testing.T, db *gorm.DB, nombre, email string, rol model.Rol) *model.Usuario {
	t.Helper()
	u := &model.Usuario{
		NombreCompleto: nombre,
		Email:          email,
		PasswordHash:   "$2a$12$hash-irrelevante-en-tests",
		Rol:            rol,
		Auditoria:      model.Auditoria{Activo: true},
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func crearSolicitud(t *testing.T, db *gorm.DB, estudianteID uuid.UUID, materia, tema string) *model.Solicitud {
	t.Helper()
	s := &model.Solicitud{
		EstudianteID: estudianteID,
		Materia:      materia,
		Tema:         tema,
		Descripcion:  "necesito ayuda con " + tema,
		Estado:       model.SolicitudAbierta,
		Auditoria:    model.Auditoria{Activo: true},
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func enviarOferta(t *testing.T, svc OfertaService, solicitudID, asesorID uuid.UUID, precio int64) *dto.OfertaResponse {
	t.Helper()
	resp, err := svc.Enviar(context.Background(), solicitudID, asesorID, dto.EnviarOfertaRequest{
		Precio:  decimal.NewFromInt(precio),
		Mensaje: "Hola, puedo ayudarte con este tema",
	})
	require.NoError(t, err)
	return resp
}

func recargarSolicitud(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Solicitud {
	t.Helper()
	var s model.Solicitud
	require.NoError(t, db.First(&s, "id = ?", id).Error)
	return &s
}

func recargarOferta(t *testing.T, db *gorm.DB, id string) *model.Oferta {
	t.Helper()
	var o model.Oferta
	require.NoError(t, db.First(&o, "id = ?", uuid.MustParse(id)).Error)
	return &o
}

// conCreatedAt fija created_at de una solicitud; necesario porque GORM lo
// autocompleta al crear.
func conCreatedAt(t *testing.T, db *gorm.DB, id uuid.UUID, ts time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&model.Solicitud{}).Where("id = ?", id).
		Update("created_at", ts).Error)
}
