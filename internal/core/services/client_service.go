package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// clientService implements the ClientSvcFacade interface
type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new client service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo}
}

// Ensure clientService implements the ClientSvcFacade interface
var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	now := time.Now()
	client := domain.Client{
		ClientID:    uuid.NewString(),
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Notes:       req.Notes,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("client_id", client.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Client created successfully", slog.String("client_id", client.ClientID))
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find client by ID", slog.String("client_id", clientID))
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx, params.Search, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients",
			slog.Int("limit", params.Limit),
			slog.Int("offset", params.Offset))
		return nil, err
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		client.Name = *req.Name
		updated = true
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
		updated = true
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
		updated = true
	}
	if req.Email != nil {
		client.Email = *req.Email
		updated = true
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
		updated = true
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for client update", slog.String("client_id", clientID))
		return client, nil
	}

	now := time.Now()
	client.LastUpdatedAt = now
	client.LastUpdatedBy = userID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}

	s.LogInfo(ctx, "Client updated successfully", slog.String("client_id", clientID))
	return client, nil
}

func (s *clientService) DeactivateClient(ctx context.Context, clientID string, userID string) error {
	now := time.Now()
	if err := s.clientRepo.DeactivateClient(ctx, clientID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate client", slog.String("client_id", clientID))
		}
		return err
	}

	s.LogInfo(ctx, "Client deactivated successfully", slog.String("client_id", clientID))
	return nil
}
