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

// vendorService implements the VendorSvcFacade interface
type vendorService struct {
	BaseService
	vendorRepo portsrepo.VendorRepositoryFacade
}

// NewVendorService creates a new vendor service.
func NewVendorService(vendorRepo portsrepo.VendorRepositoryFacade) portssvc.VendorSvcFacade {
	return &vendorService{vendorRepo: vendorRepo}
}

// Ensure vendorService implements the VendorSvcFacade interface
var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

func (s *vendorService) CreateVendor(ctx context.Context, req dto.CreateVendorRequest, userID string) (*domain.Vendor, error) {
	now := time.Now()
	vendor := domain.Vendor{
		VendorID:    uuid.NewString(),
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

	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		s.LogError(ctx, err, "Failed to save vendor", slog.String("vendor_id", vendor.VendorID))
		return nil, err
	}

	s.LogInfo(ctx, "Vendor created successfully", slog.String("vendor_id", vendor.VendorID))
	return &vendor, nil
}

func (s *vendorService) GetVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor by ID", slog.String("vendor_id", vendorID))
		}
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) ListVendors(ctx context.Context, params dto.ListVendorsParams) ([]domain.Vendor, error) {
	vendors, err := s.vendorRepo.ListVendors(ctx, params.Search, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vendors",
			slog.Int("limit", params.Limit),
			slog.Int("offset", params.Offset))
		return nil, err
	}
	if vendors == nil {
		return []domain.Vendor{}, nil
	}
	return vendors, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, vendorID string, req dto.UpdateVendorRequest, userID string) (*domain.Vendor, error) {
	vendor, err := s.GetVendorByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		vendor.Name = *req.Name
		updated = true
	}
	if req.ContactName != nil {
		vendor.ContactName = *req.ContactName
		updated = true
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
		updated = true
	}
	if req.Email != nil {
		vendor.Email = *req.Email
		updated = true
	}
	if req.Notes != nil {
		vendor.Notes = *req.Notes
		updated = true
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for vendor update", slog.String("vendor_id", vendorID))
		return vendor, nil
	}

	now := time.Now()
	vendor.LastUpdatedAt = now
	vendor.LastUpdatedBy = userID

	if err := s.vendorRepo.UpdateVendor(ctx, *vendor); err != nil {
		s.LogError(ctx, err, "Failed to update vendor", slog.String("vendor_id", vendorID))
		return nil, err
	}

	s.LogInfo(ctx, "Vendor updated successfully", slog.String("vendor_id", vendorID))
	return vendor, nil
}

func (s *vendorService) DeactivateVendor(ctx context.Context, vendorID string, userID string) error {
	now := time.Now()
	if err := s.vendorRepo.DeactivateVendor(ctx, vendorID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate vendor", slog.String("vendor_id", vendorID))
		}
		return err
	}

	s.LogInfo(ctx, "Vendor deactivated successfully", slog.String("vendor_id", vendorID))
	return nil
}

// vendorServiceSvc implements the VendorServiceSvcFacade interface for the
// priced services a vendor offers.
type vendorServiceSvc struct {
	BaseService
	serviceRepo portsrepo.VendorServiceRepositoryFacade
	vendorRepo  portsrepo.VendorReader
}

// NewVendorServiceSvc creates a new vendor-service service.
func NewVendorServiceSvc(serviceRepo portsrepo.VendorServiceRepositoryFacade, vendorRepo portsrepo.VendorReader) portssvc.VendorServiceSvcFacade {
	return &vendorServiceSvc{serviceRepo: serviceRepo, vendorRepo: vendorRepo}
}

// Ensure vendorServiceSvc implements the VendorServiceSvcFacade interface
var _ portssvc.VendorServiceSvcFacade = (*vendorServiceSvc)(nil)

func (s *vendorServiceSvc) CreateVendorService(ctx context.Context, req dto.CreateVendorServiceRequest, userID string) (*domain.VendorService, error) {
	// The owning vendor must exist and be active.
	vendor, err := s.vendorRepo.FindVendorByID(ctx, req.VendorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor for service creation", slog.String("vendor_id", req.VendorID))
		}
		return nil, err
	}
	if !vendor.IsActive {
		return nil, apperrors.NewValidationError("cannot add a service to an inactive vendor")
	}
	if req.Price.IsNegative() {
		return nil, apperrors.NewValidationError("price must not be negative")
	}

	now := time.Now()
	service := domain.VendorService{
		VendorServiceID: uuid.NewString(),
		VendorID:        req.VendorID,
		ServiceType:     req.ServiceType,
		Name:            req.Name,
		Unit:            req.Unit,
		Price:           req.Price,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.serviceRepo.SaveVendorService(ctx, service); err != nil {
		s.LogError(ctx, err, "Failed to save vendor service", slog.String("vendor_service_id", service.VendorServiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Vendor service created successfully",
		slog.String("vendor_service_id", service.VendorServiceID),
		slog.String("vendor_id", service.VendorID))
	return &service, nil
}

func (s *vendorServiceSvc) GetVendorServiceByID(ctx context.Context, vendorServiceID string) (*domain.VendorService, error) {
	service, err := s.serviceRepo.FindVendorServiceByID(ctx, vendorServiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor service by ID", slog.String("vendor_service_id", vendorServiceID))
		}
		return nil, err
	}
	return service, nil
}

func (s *vendorServiceSvc) ListVendorServices(ctx context.Context, params dto.ListVendorServicesParams) ([]domain.VendorService, error) {
	services, err := s.serviceRepo.ListVendorServices(ctx, params.VendorID, domain.ServiceType(params.ServiceType), params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vendor services", slog.String("vendor_id", params.VendorID))
		return nil, err
	}
	if services == nil {
		return []domain.VendorService{}, nil
	}
	return services, nil
}

func (s *vendorServiceSvc) ListPriceChanges(ctx context.Context, vendorServiceID string) ([]domain.VendorServicePriceChange, error) {
	// Resolve the service first so an unknown ID surfaces as NotFound rather
	// than an empty history.
	if _, err := s.GetVendorServiceByID(ctx, vendorServiceID); err != nil {
		return nil, err
	}

	changes, err := s.serviceRepo.ListPriceChanges(ctx, vendorServiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list price changes", slog.String("vendor_service_id", vendorServiceID))
		return nil, err
	}
	if changes == nil {
		return []domain.VendorServicePriceChange{}, nil
	}
	return changes, nil
}

// UpdateVendorService updates a vendor service. When the price changes, a
// price-history entry is appended in the same database transaction as the
// service row update.
func (s *vendorServiceSvc) UpdateVendorService(ctx context.Context, vendorServiceID string, req dto.UpdateVendorServiceRequest, userID string) (*domain.VendorService, error) {
	service, err := s.GetVendorServiceByID(ctx, vendorServiceID)
	if err != nil {
		return nil, err
	}

	var priceChange *domain.VendorServicePriceChange
	now := time.Now()

	updated := false
	if req.Name != nil {
		service.Name = *req.Name
		updated = true
	}
	if req.Unit != nil {
		service.Unit = *req.Unit
		updated = true
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
		updated = true
	}
	if req.Price != nil && !req.Price.Equal(service.Price) {
		if req.Price.IsNegative() {
			return nil, apperrors.NewValidationError("price must not be negative")
		}
		priceChange = &domain.VendorServicePriceChange{
			PriceChangeID:   uuid.NewString(),
			VendorServiceID: service.VendorServiceID,
			OldPrice:        service.Price,
			NewPrice:        *req.Price,
			ChangedAt:       now,
			ChangedBy:       userID,
		}
		service.Price = *req.Price
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for vendor service update", slog.String("vendor_service_id", vendorServiceID))
		return service, nil
	}

	service.LastUpdatedAt = now
	service.LastUpdatedBy = userID

	if err := s.serviceRepo.UpdateVendorService(ctx, *service, priceChange); err != nil {
		s.LogError(ctx, err, "Failed to update vendor service", slog.String("vendor_service_id", vendorServiceID))
		return nil, err
	}

	if priceChange != nil {
		s.LogInfo(ctx, "Vendor service price changed",
			slog.String("vendor_service_id", vendorServiceID),
			slog.String("old_price", priceChange.OldPrice.String()),
			slog.String("new_price", priceChange.NewPrice.String()))
	} else {
		s.LogInfo(ctx, "Vendor service updated successfully", slog.String("vendor_service_id", vendorServiceID))
	}
	return service, nil
}

func (s *vendorServiceSvc) DeactivateVendorService(ctx context.Context, vendorServiceID string, userID string) error {
	now := time.Now()
	if err := s.serviceRepo.DeactivateVendorService(ctx, vendorServiceID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate vendor service", slog.String("vendor_service_id", vendorServiceID))
		}
		return err
	}

	s.LogInfo(ctx, "Vendor service deactivated successfully", slog.String("vendor_service_id", vendorServiceID))
	return nil
}
