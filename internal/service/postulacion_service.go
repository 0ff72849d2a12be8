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

type PostulacionService interface {
	Postularse(ctx context.Context, usuarioID uuid.UUID, req dto.PostulacionRequest) (*dto.PostulacionResponse, error)
	Pendientes(ctx context.Context) ([]dto.PostulacionResponse, error)
	Resolver(ctx context.Context, id uuid.UUID, aprobada bool) (*dto.ResolverPostulacionResponse, error)
}

type postulacionService struct {
	repo        repository.PostulacionRepository
	usuarioRepo repository.UsuarioRepository
}

func NewPostulacionService(repo repository.PostulacionRepository, usuarioRepo repository.UsuarioRepository) PostulacionService {
	return &postulacionService{repo: repo, usuarioRepo: usuarioRepo}
}

// Postularse registra la única postulación permitida por usuario.
func (s *postulacionService) Postularse(ctx context.Context, usuarioID uuid.UUID, req dto.PostulacionRequest) (*dto.PostulacionResponse, error) {
	if _, err := s.usuarioRepo.FindByID(ctx, usuarioID); err != nil {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	if _, err := s.repo.FindByUsuario(ctx, usuarioID); err == nil {
		return nil, apierror.Conflict("Ya tienes una postulación registrada")
	}

	postulacion := &model.PostulacionAsesor{
		UsuarioID:     usuarioID,
		NivelEstudios: req.NivelEstudios,
		Institucion:   req.Institucion,
		Especialidad:  req.Especialidad,
		Experiencia:   req.Experiencia,
		DocumentoURL:  req.DocumentoURL,
		Estado:        model.PostulacionPendiente,
		Auditoria:     model.Auditoria{Activo: true},
	}
	if err := s.repo.Create(ctx, postulacion); err != nil {
		return nil, err
	}
	resp := postulacionToResponse(postulacion)
	return &resp, nil
}

func (s *postulacionService) Pendientes(ctx context.Context) ([]dto.PostulacionResponse, error) {
	postulaciones, err := s.repo.ListByEstado(ctx, model.PostulacionPendiente)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PostulacionResponse, 0, len(postulaciones))
	for i := range postulaciones {
		resp = append(resp, postulacionToResponse(&postulaciones[i]))
	}
	return resp, nil
}

// Resolver decide la postulación exactamente una vez. Aprobarla promueve el
// rol del usuario a Asesor en la misma transacción: nunca puede quedar una
// postulación Aprobada con el rol sin subir, ni producirse una segunda
// promoción por re-resolver.
func (s *postulacionService) Resolver(ctx context.Context, id uuid.UUID, aprobada bool) (*dto.ResolverPostulacionResponse, error) {
	var mensaje string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		postulacion, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.NotFound("Postulación no encontrada")
		}
		if postulacion.Estado != model.PostulacionPendiente {
			return apierror.InvalidState("La postulación ya fue resuelta")
		}

		if !aprobada {
			mensaje = "Postulación rechazada."
			return s.repo.UpdateEstadoTx(tx, id, model.PostulacionRechazada)
		}

		if err := s.repo.UpdateEstadoTx(tx, id, model.PostulacionAprobada); err != nil {
			return err
		}
		if err := s.usuarioRepo.UpdateRolTx(tx, postulacion.UsuarioID, model.RolAsesor); err != nil {
			return err
		}
		mensaje = "Usuario ascendido a Asesor correctamente."
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResolverPostulacionResponse{Mensaje: mensaje}, nil
}

func postulacionToResponse(p *model.PostulacionAsesor) dto.PostulacionResponse {
	return dto.PostulacionResponse{
		ID:            p.ID.String(),
		UsuarioID:     p.UsuarioID.String(),
		NivelEstudios: p.NivelEstudios,
		Institucion:   p.Institucion,
		Especialidad:  p.Especialidad,
		Experiencia:   p.Experiencia,
		DocumentoURL:  p.DocumentoURL,
		Estado:        string(p.Estado),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
