package service

import (
	"context"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cotas de la vista paginada.
const (
	limitePorDefecto = 20
	limiteMaximo     = 100
)

// SolicitudService es el motor de ciclo de vida de las solicitudes. Cada
// operación de escritura corre como una única transacción; las transiciones
// multi-fila (aceptar oferta, finalizar) se confirman juntas o no se aplican.
type SolicitudService interface {
	Crear(ctx context.Context, estudianteID uuid.UUID, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error)
	Editar(ctx context.Context, id, estudianteID uuid.UUID, req dto.EditarSolicitudRequest) (*dto.SolicitudResponse, error)
	Cancelar(ctx context.Context, id, estudianteID uuid.UUID) error
	AceptarOferta(ctx context.Context, solicitudID, ofertaID, estudianteID uuid.UUID) error
	Finalizar(ctx context.Context, solicitudID, estudianteID uuid.UUID) error

	MisSolicitudes(ctx context.Context, estudianteID uuid.UUID, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error)
	Mercado(ctx context.Context, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error)
	Listar(ctx context.Context, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error)
}

type solicitudService struct {
	repo        repository.SolicitudRepository
	ofertaRepo  repository.OfertaRepository
	usuarioRepo repository.UsuarioRepository
}

func NewSolicitudService(
	repo repository.SolicitudRepository,
	ofertaRepo repository.OfertaRepository,
	usuarioRepo repository.UsuarioRepository,
) SolicitudService {
	return &solicitudService{repo: repo, ofertaRepo: ofertaRepo, usuarioRepo: usuarioRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *solicitudService) Crear(ctx context.Context, estudianteID uuid.UUID, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	if _, err := s.usuarioRepo.FindByID(ctx, estudianteID); err != nil {
		return nil, apierror.NotFound("Usuario no encontrado")
	}

	solicitud := &model.Solicitud{
		EstudianteID: estudianteID,
		Materia:      req.Materia,
		Tema:         req.Tema,
		Descripcion:  req.Descripcion,
		FechaLimite:  req.FechaLimite,
		ArchivoURL:   req.ArchivoURL,
		Estado:       model.SolicitudAbierta,
		Auditoria:    model.Auditoria{Activo: true},
	}
	if err := s.repo.Create(ctx, solicitud); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, solicitud)
	return &resp, nil
}

func (s *solicitudService) Editar(ctx context.Context, id, estudianteID uuid.UUID, req dto.EditarSolicitudRequest) (*dto.SolicitudResponse, error) {
	solicitud, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Solicitud no encontrada")
	}
	if solicitud.EstudianteID != estudianteID {
		// La existencia de solicitudes ajenas no se revela.
		return nil, apierror.NotFound("Solicitud no encontrada")
	}
	if solicitud.Estado != model.SolicitudAbierta {
		return nil, apierror.InvalidState("Solo se puede editar una solicitud abierta")
	}

	solicitud.Materia = req.Materia
	solicitud.Tema = req.Tema
	solicitud.Descripcion = req.Descripcion
	solicitud.FechaLimite = req.FechaLimite
	solicitud.ArchivoURL = req.ArchivoURL
	if err := s.repo.Update(ctx, solicitud); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, solicitud)
	return &resp, nil
}

func (s *solicitudService) Cancelar(ctx context.Context, id, estudianteID uuid.UUID) error {
	solicitud, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Solicitud no encontrada")
	}
	if solicitud.EstudianteID != estudianteID {
		return apierror.NotFound("Solicitud no encontrada")
	}
	if solicitud.Estado != model.SolicitudAbierta {
		return apierror.InvalidState("Solo se puede cancelar una solicitud abierta")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateEstadoTx(tx, id, model.SolicitudCancelada)
	})
}

// AceptarOferta ejecuta el match en una sola unidad atómica: la oferta
// ganadora pasa a Aceptada, la solicitud a EnProceso y todas las hermanas
// pendientes a Rechazada. La fila de la solicitud se bloquea primero, así un
// segundo aceptar concurrente observa Estado≠Abierta y falla.
func (s *solicitudService) AceptarOferta(ctx context.Context, solicitudID, ofertaID, estudianteID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		solicitud, err := s.repo.FindForUpdateTx(tx, solicitudID)
		if err != nil {
			return apierror.NotFound("Solicitud no encontrada")
		}
		if solicitud.EstudianteID != estudianteID {
			return apierror.NotFound("Solicitud no encontrada")
		}
		if solicitud.Estado != model.SolicitudAbierta {
			return apierror.InvalidState("La solicitud ya no está abierta")
		}

		oferta, err := s.ofertaRepo.FindByIDTx(tx, ofertaID)
		if err != nil || oferta.SolicitudID != solicitudID {
			return apierror.NotFound("Oferta no encontrada")
		}
		if oferta.Estado != model.OfertaPendiente {
			return apierror.InvalidState("La oferta ya fue resuelta")
		}

		if err := s.ofertaRepo.UpdateEstadoTx(tx, ofertaID, model.OfertaAceptada); err != nil {
			return err
		}
		if err := s.repo.UpdateEstadoTx(tx, solicitudID, model.SolicitudEnProceso); err != nil {
			return err
		}
		return s.ofertaRepo.RechazarHermanasTx(tx, solicitudID, ofertaID)
	})
}

// Finalizar cierra el servicio: la solicitud pasa a Finalizada y su oferta
// Aceptada (si la hay) a Finalizada, en la misma transacción.
func (s *solicitudService) Finalizar(ctx context.Context, solicitudID, estudianteID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		solicitud, err := s.repo.FindForUpdateTx(tx, solicitudID)
		if err != nil {
			return apierror.NotFound("Solicitud no encontrada")
		}
		if solicitud.EstudianteID != estudianteID {
			return apierror.NotFound("Solicitud no encontrada")
		}
		if solicitud.Estado != model.SolicitudEnProceso {
			return apierror.InvalidState("Solo se puede finalizar una solicitud en proceso")
		}

		if err := s.repo.UpdateEstadoTx(tx, solicitudID, model.SolicitudFinalizada); err != nil {
			return err
		}
		aceptada, err := s.ofertaRepo.FindAceptadaTx(tx, solicitudID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return err
		}
		return s.ofertaRepo.UpdateEstadoTx(tx, aceptada.ID, model.OfertaFinalizada)
	})
}

func (s *solicitudService) MisSolicitudes(ctx context.Context, estudianteID uuid.UUID, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error) {
	clampFilter(&filter)
	solicitudes, total, err := s.repo.ListByEstudiante(ctx, estudianteID, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(ctx, solicitudes, total, filter), nil
}

// Mercado devuelve las solicitudes abiertas para que los asesores coticen.
func (s *solicitudService) Mercado(ctx context.Context, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error) {
	clampFilter(&filter)
	filter.Estado = string(model.SolicitudAbierta)
	solicitudes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(ctx, solicitudes, total, filter), nil
}

// Listar es la vista paginada de administración, sin restricción de dueño.
func (s *solicitudService) Listar(ctx context.Context, filter dto.SolicitudFilter) (*dto.SolicitudListResponse, error) {
	clampFilter(&filter)
	solicitudes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(ctx, solicitudes, total, filter), nil
}

func clampFilter(f *dto.SolicitudFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = limitePorDefecto
	}
	if f.Limit > limiteMaximo {
		f.Limit = limiteMaximo
	}
}

func totalPages(total int64, limit int) int {
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (s *solicitudService) toListResponse(ctx context.Context, solicitudes []model.Solicitud, total int64, filter dto.SolicitudFilter) *dto.SolicitudListResponse {
	// Un solo lookup para todos los asesores de la página.
	var asesorIDs []uuid.UUID
	for _, sol := range solicitudes {
		for _, o := range sol.Ofertas {
			asesorIDs = append(asesorIDs, o.AsesorID)
		}
	}
	usuarios, err := s.usuarioRepo.FindByIDs(ctx, asesorIDs)
	if err != nil {
		usuarios = nil // la lectura degrada a placeholder, no falla
	}

	data := make([]dto.SolicitudResponse, 0, len(solicitudes))
	for i := range solicitudes {
		data = append(data, solicitudToResponse(&solicitudes[i], usuarios))
	}
	return &dto.SolicitudListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}
}

func (s *solicitudService) toResponse(ctx context.Context, solicitud *model.Solicitud) dto.SolicitudResponse {
	var asesorIDs []uuid.UUID
	for _, o := range solicitud.Ofertas {
		asesorIDs = append(asesorIDs, o.AsesorID)
	}
	usuarios, err := s.usuarioRepo.FindByIDs(ctx, asesorIDs)
	if err != nil {
		usuarios = nil
	}
	return solicitudToResponse(solicitud, usuarios)
}

// nombrePlaceholder se usa cuando el usuario relacionado ya no puede leerse;
// la lectura nunca falla por un faltante de enriquecimiento.
const nombrePlaceholder = "(usuario no disponible)"

func solicitudToResponse(s *model.Solicitud, usuarios map[uuid.UUID]model.Usuario) dto.SolicitudResponse {
	resp := dto.SolicitudResponse{
		ID:           s.ID.String(),
		EstudianteID: s.EstudianteID.String(),
		Materia:      s.Materia,
		Tema:         s.Tema,
		Descripcion:  s.Descripcion,
		FechaLimite:  s.FechaLimite,
		ArchivoURL:   s.ArchivoURL,
		Estado:       string(s.Estado),
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
		Ofertas:      make([]dto.OfertaResponse, 0, len(s.Ofertas)),
	}
	for _, o := range s.Ofertas {
		nombre := nombrePlaceholder
		var email string
		if u, ok := usuarios[o.AsesorID]; ok {
			nombre = u.NombreCompleto
			email = u.Email
		}
		ofertaResp := dto.OfertaResponse{
			ID:           o.ID.String(),
			SolicitudID:  o.SolicitudID.String(),
			AsesorID:     o.AsesorID.String(),
			NombreAsesor: nombre,
			Precio:       o.Precio,
			Mensaje:      o.Mensaje,
			Estado:       string(o.Estado),
			CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
		}
		resp.Ofertas = append(resp.Ofertas, ofertaResp)

		// El match expone el contacto del asesor aceptado al estudiante.
		if (o.Estado == model.OfertaAceptada || o.Estado == model.OfertaFinalizada) && email != "" {
			contacto := email
			resp.ContactoMatch = &contacto
		}
	}
	return resp
}
