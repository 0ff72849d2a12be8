package service

import (
	"context"

	"github.com/Cabral2104/backend-asesorias/internal/dto"
	"github.com/Cabral2104/backend-asesorias/internal/model"
	"github.com/Cabral2104/backend-asesorias/internal/repository"
)

// AdminService compone lecturas agregadas de solo consulta para el dashboard.
type AdminService interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type adminService struct {
	usuarioRepo   repository.UsuarioRepository
	solicitudRepo repository.SolicitudRepository
}

func NewAdminService(usuarioRepo repository.UsuarioRepository, solicitudRepo repository.SolicitudRepository) AdminService {
	return &adminService{usuarioRepo: usuarioRepo, solicitudRepo: solicitudRepo}
}

func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	usuarios, err := s.usuarioRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	solicitudes, err := s.solicitudRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	abiertas, err := s.solicitudRepo.CountByEstado(ctx, model.SolicitudAbierta)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		Usuarios:           usuarios,
		SolicitudesTotal:   solicitudes,
		SolicitudesActivas: abiertas,
	}, nil
}
