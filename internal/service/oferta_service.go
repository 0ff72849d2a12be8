package service

import (
	"context"
	"time"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"
	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"

	"github.com/google/uuid"
)

type OfertaService interface {
	Enviar(ctx context.Context, solicitudID, asesorID uuid.UUID, req dto.EnviarOfertaRequest) (*dto.OfertaResponse, error)
	MisOfertas(ctx context.Context, asesorID uuid.UUID) ([]dto.OfertaResponse, error)
}

type ofertaService struct {
	repo          repository.OfertaRepository
	solicitudRepo repository.SolicitudRepository
	usuarioRepo   repository.UsuarioRepository
}

func NewOfertaService(
	repo repository.OfertaRepository,
	solicitudRepo repository.SolicitudRepository,
	usuarioRepo repository.UsuarioRepository,
) OfertaService {
	return &ofertaService{repo: repo, solicitudRepo: solicitudRepo, usuarioRepo: usuarioRepo}
}

// Enviar registra la cotización de un asesor sobre una solicitud abierta.
// Un asesor oferta a lo sumo una vez por solicitud y nunca sobre la propia.
func (s *ofertaService) Enviar(ctx context.Context, solicitudID, asesorID uuid.UUID, req dto.EnviarOfertaRequest) (*dto.OfertaResponse, error) {
	asesor, err := s.usuarioRepo.FindByID(ctx, asesorID)
	if err != nil {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	if !asesor.Rol.PuedeOfertar() {
		return nil, apierror.Forbidden("Solo los asesores pueden ofertar")
	}

	solicitud, err := s.solicitudRepo.FindByID(ctx, solicitudID)
	if err != nil {
		return nil, apierror.NotFound("Solicitud no encontrada")
	}
	if solicitud.EstudianteID == asesorID {
		return nil, apierror.Forbidden("No puedes ofertar en tu propia solicitud")
	}
	if solicitud.Estado != model.SolicitudAbierta {
		return nil, apierror.InvalidState("La solicitud ya no acepta ofertas")
	}
	if _, err := s.repo.FindBySolicitudAndAsesor(ctx, solicitudID, asesorID); err == nil {
		return nil, apierror.Conflict("Ya enviaste una oferta para esta solicitud")
	}

	oferta := &model.Oferta{
		SolicitudID: solicitudID,
		AsesorID:    asesorID,
		Precio:      req.Precio,
		Mensaje:     req.Mensaje,
		Estado:      model.OfertaPendiente,
		Auditoria:   model.Auditoria{Activo: true},
	}
	if err := s.repo.Create(ctx, oferta); err != nil {
		return nil, err
	}

	resp := ofertaToResponse(oferta, asesor.NombreCompleto)
	return &resp, nil
}

// MisOfertas lista las ofertas del asesor. Tras un match (Aceptada o
// Finalizada) se expone el email del estudiante dueño de la solicitud; un
// registro faltante degrada a omitir el contacto sin fallar la lectura.
func (s *ofertaService) MisOfertas(ctx context.Context, asesorID uuid.UUID) ([]dto.OfertaResponse, error) {
	asesor, err := s.usuarioRepo.FindByID(ctx, asesorID)
	if err != nil {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	ofertas, err := s.repo.ListByAsesor(ctx, asesorID)
	if err != nil {
		return nil, err
	}

	// Un solo lookup de solicitudes con match y otro de sus estudiantes.
	var conMatch []uuid.UUID
	for i := range ofertas {
		if ofertas[i].Estado == model.OfertaAceptada || ofertas[i].Estado == model.OfertaFinalizada {
			conMatch = append(conMatch, ofertas[i].SolicitudID)
		}
	}
	solicitudes, err := s.solicitudRepo.FindByIDs(ctx, conMatch)
	if err != nil {
		solicitudes = nil
	}
	var estudianteIDs []uuid.UUID
	for _, sol := range solicitudes {
		estudianteIDs = append(estudianteIDs, sol.EstudianteID)
	}
	estudiantes, err := s.usuarioRepo.FindByIDs(ctx, estudianteIDs)
	if err != nil {
		estudiantes = nil
	}

	resp := make([]dto.OfertaResponse, 0, len(ofertas))
	for i := range ofertas {
		o := &ofertas[i]
		item := ofertaToResponse(o, asesor.NombreCompleto)

		if solicitud, ok := solicitudes[o.SolicitudID]; ok {
			if estudiante, ok := estudiantes[solicitud.EstudianteID]; ok {
				contacto := estudiante.Email
				item.ContactoMatch = &contacto
			}
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func ofertaToResponse(o *model.Oferta, nombreAsesor string) dto.OfertaResponse {
	if nombreAsesor == "" {
		nombreAsesor = nombrePlaceholder
	}
	return dto.OfertaResponse{
		ID:           o.ID.String(),
		SolicitudID:  o.SolicitudID.String(),
		AsesorID:     o.AsesorID.String(),
		NombreAsesor: nombreAsesor,
		Precio:       o.Precio,
		Mensaje:      o.Mensaje,
		Estado:       string(o.Estado),
		CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
