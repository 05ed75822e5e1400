package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Vendor DTOs ---

// CreateVendorRequest defines the data needed to create a new vendor.
type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Notes       string `json:"notes"`
}

// UpdateVendorRequest defines the data allowed for updating a vendor.
type UpdateVendorRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"isActive"`
}

// VendorResponse defines the data returned for a vendor.
type VendorResponse struct {
	VendorID      string    `json:"vendorID"`
	Name          string    `json:"name"`
	ContactName   string    `json:"contactName"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToVendorResponse converts a domain.Vendor to VendorResponse DTO
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		VendorID:      v.VendorID,
		Name:          v.Name,
		ContactName:   v.ContactName,
		Phone:         v.Phone,
		Email:         v.Email,
		Notes:         v.Notes,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
		LastUpdatedAt: v.LastUpdatedAt,
		LastUpdatedBy: v.LastUpdatedBy,
	}
}

// ListVendorsParams defines query parameters for listing vendors.
type ListVendorsParams struct {
	Search string `form:"search"` // Matches against name and contact name
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListVendorsResponse wraps the list of vendors.
type ListVendorsResponse struct {
	Vendors []VendorResponse `json:"vendors"`
}

// ToListVendorsResponse converts a slice of domain.Vendor to ListVendorsResponse DTO
func ToListVendorsResponse(vendors []domain.Vendor) ListVendorsResponse {
	res := make([]VendorResponse, len(vendors))
	for i, v := range vendors {
		res[i] = ToVendorResponse(&v)
	}
	return ListVendorsResponse{Vendors: res}
}

// --- Vendor Service DTOs ---

// CreateVendorServiceRequest defines the data needed to create a vendor service.
type CreateVendorServiceRequest struct {
	VendorID    string             `json:"vendorID" binding:"required"`
	ServiceType domain.ServiceType `json:"serviceType" binding:"required,oneof=STORAGE PICKING PACKING DELIVERY SUPPLY OTHER"`
	Name        string             `json:"name" binding:"required"`
	Unit        string             `json:"unit" binding:"required"`
	Price       decimal.Decimal    `json:"price" binding:"required"`
}

// UpdateVendorServiceRequest defines the data allowed for updating a vendor service.
// A price update appends an entry to the service's price history.
type UpdateVendorServiceRequest struct {
	Name     *string          `json:"name"`
	Unit     *string          `json:"unit"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"isActive"`
}

// VendorServiceResponse defines the data returned for a vendor service.
type VendorServiceResponse struct {
	VendorServiceID string             `json:"vendorServiceID"`
	VendorID        string             `json:"vendorID"`
	ServiceType     domain.ServiceType `json:"serviceType"`
	Name            string             `json:"name"`
	Unit            string             `json:"unit"`
	Price           decimal.Decimal    `json:"price"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToVendorServiceResponse converts a domain.VendorService to VendorServiceResponse DTO
func ToVendorServiceResponse(s *domain.VendorService) VendorServiceResponse {
	return VendorServiceResponse{
		VendorServiceID: s.VendorServiceID,
		VendorID:        s.VendorID,
		ServiceType:     s.ServiceType,
		Name:            s.Name,
		Unit:            s.Unit,
		Price:           s.Price,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		CreatedBy:       s.CreatedBy,
		LastUpdatedAt:   s.LastUpdatedAt,
		LastUpdatedBy:   s.LastUpdatedBy,
	}
}

// ListVendorServicesParams defines query parameters for listing vendor services.
type ListVendorServicesParams struct {
	VendorID    string `form:"vendorID"`
	ServiceType string `form:"serviceType" binding:"omitempty,oneof=STORAGE PICKING PACKING DELIVERY SUPPLY OTHER"`
	Limit       int    `form:"limit,default=20"`
	Offset      int    `form:"offset,default=0"`
}

// ListVendorServicesResponse wraps the list of vendor services.
type ListVendorServicesResponse struct {
	Services []VendorServiceResponse `json:"services"`
}

// ToListVendorServicesResponse converts a slice of domain.VendorService to DTO.
func ToListVendorServicesResponse(services []domain.VendorService) ListVendorServicesResponse {
	res := make([]VendorServiceResponse, len(services))
	for i, s := range services {
		res[i] = ToVendorServiceResponse(&s)
	}
	return ListVendorServicesResponse{Services: res}
}

// PriceChangeResponse defines one entry of a vendor service's price history.
type PriceChangeResponse struct {
	PriceChangeID   string          `json:"priceChangeID"`
	VendorServiceID string          `json:"vendorServiceID"`
	OldPrice        decimal.Decimal `json:"oldPrice"`
	NewPrice        decimal.Decimal `json:"newPrice"`
	ChangedAt       time.Time       `json:"changedAt"`
	ChangedBy       string          `json:"changedBy"`
}

// ListPriceChangesResponse wraps a service's price history, newest first.
type ListPriceChangesResponse struct {
	PriceChanges []PriceChangeResponse `json:"priceChanges"`
}

// ToListPriceChangesResponse converts domain price changes to DTO.
func ToListPriceChangesResponse(changes []domain.VendorServicePriceChange) ListPriceChangesResponse {
	res := make([]PriceChangeResponse, len(changes))
	for i, ch := range changes {
		res[i] = PriceChangeResponse{
			PriceChangeID:   ch.PriceChangeID,
			VendorServiceID: ch.VendorServiceID,
			OldPrice:        ch.OldPrice,
			NewPrice:        ch.NewPrice,
			ChangedAt:       ch.ChangedAt,
			ChangedBy:       ch.ChangedBy,
		}
	}
	return ListPriceChangesResponse{PriceChanges: res}
}
