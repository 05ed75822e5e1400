package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// VendorReaderSvc defines read operations for vendor data
type VendorReaderSvc interface {
	// GetVendorByID retrieves a specific vendor by its unique identifier.
	GetVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of vendors, optionally
	// filtered by a search term on name and contact name.
	ListVendors(ctx context.Context, params dto.ListVendorsParams) ([]domain.Vendor, error)
}

// VendorWriterSvc defines write operations for vendor data
type VendorWriterSvc interface {
	// CreateVendor persists a new vendor.
	CreateVendor(ctx context.Context, req dto.CreateVendorRequest, userID string) (*domain.Vendor, error)

	// UpdateVendor updates an existing vendor's details.
	UpdateVendor(ctx context.Context, vendorID string, req dto.UpdateVendorRequest, userID string) (*domain.Vendor, error)

	// DeactivateVendor marks a vendor as inactive.
	DeactivateVendor(ctx context.Context, vendorID string, userID string) error
}

// VendorSvcFacade combines all vendor-related service interfaces
type VendorSvcFacade interface {
	VendorReaderSvc
	VendorWriterSvc
}

// VendorServiceReaderSvc defines read operations for vendor service data
type VendorServiceReaderSvc interface {
	// GetVendorServiceByID retrieves a specific vendor service by its unique identifier.
	GetVendorServiceByID(ctx context.Context, vendorServiceID string) (*domain.VendorService, error)

	// ListVendorServices retrieves a paginated list of vendor services,
	// optionally filtered by vendor and service type.
	ListVendorServices(ctx context.Context, params dto.ListVendorServicesParams) ([]domain.VendorService, error)

	// ListPriceChanges retrieves a service's price history, newest first.
	ListPriceChanges(ctx context.Context, vendorServiceID string) ([]domain.VendorServicePriceChange, error)
}

// VendorServiceWriterSvc defines write operations for vendor service data
type VendorServiceWriterSvc interface {
	// CreateVendorService persists a new vendor service.
	CreateVendorService(ctx context.Context, req dto.CreateVendorServiceRequest, userID string) (*domain.VendorService, error)

	// UpdateVendorService updates an existing vendor service. A price change
	// appends an entry to the service's price history.
	UpdateVendorService(ctx context.Context, vendorServiceID string, req dto.UpdateVendorServiceRequest, userID string) (*domain.VendorService, error)

	// DeactivateVendorService marks a vendor service as inactive.
	DeactivateVendorService(ctx context.Context, vendorServiceID string, userID string) error
}

// VendorServiceSvcFacade combines all vendor-service-related interfaces
type VendorServiceSvcFacade interface {
	VendorServiceReaderSvc
	VendorServiceWriterSvc
}
