package repositories

import (
	"context"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
)

// VendorReader defines read operations for vendor data
type VendorReader interface {
	// FindVendorByID retrieves a vendor by its unique identifier.
	FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of vendors, optionally filtered
	// by a case-insensitive name search.
	ListVendors(ctx context.Context, search string, limit, offset int) ([]domain.Vendor, error)
}

// VendorWriter defines write operations for vendor data
type VendorWriter interface {
	// SaveVendor persists a new vendor.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error

	// UpdateVendor updates an existing vendor's details.
	UpdateVendor(ctx context.Context, vendor domain.Vendor) error

	// DeactivateVendor marks a vendor as inactive.
	DeactivateVendor(ctx context.Context, vendorID string, userID string, now time.Time) error
}

// VendorRepositoryFacade combines all vendor-related repository interfaces
type VendorRepositoryFacade interface {
	VendorReader
	VendorWriter
}

// VendorServiceReader defines read operations for vendor service data
type VendorServiceReader interface {
	// FindVendorServiceByID retrieves a vendor service by its unique identifier.
	FindVendorServiceByID(ctx context.Context, vendorServiceID string) (*domain.VendorService, error)

	// FindVendorServicesByIDs retrieves multiple vendor services by their IDs.
	FindVendorServicesByIDs(ctx context.Context, vendorServiceIDs []string) (map[string]domain.VendorService, error)

	// ListVendorServices retrieves vendor services filtered by vendor and/or
	// service type. Empty filter values match everything.
	ListVendorServices(ctx context.Context, vendorID string, serviceType domain.ServiceType, limit, offset int) ([]domain.VendorService, error)

	// ListPriceChanges retrieves the append-only price history of a service,
	// newest first.
	ListPriceChanges(ctx context.Context, vendorServiceID string) ([]domain.VendorServicePriceChange, error)
}

// VendorServiceWriter defines write operations for vendor service data
type VendorServiceWriter interface {
	// SaveVendorService persists a new vendor service.
	SaveVendorService(ctx context.Context, service domain.VendorService) error

	// UpdateVendorService updates a service's details. When the price changed,
	// the supplied price-change row is appended in the same transaction.
	UpdateVendorService(ctx context.Context, service domain.VendorService, priceChange *domain.VendorServicePriceChange) error

	// DeactivateVendorService marks a vendor service as inactive.
	DeactivateVendorService(ctx context.Context, vendorServiceID string, userID string, now time.Time) error
}

// VendorServiceRepositoryFacade combines all vendor-service repository interfaces
type VendorServiceRepositoryFacade interface {
	VendorServiceReader
	VendorServiceWriter
}
