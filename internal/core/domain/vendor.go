package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor represents a third-party provider of fulfilment services.
type Vendor struct {
	VendorID    string `json:"vendorID"` // Primary Key (UUID)
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// ServiceType classifies what kind of work a vendor service covers.
type ServiceType string

const (
	ServiceStorage  ServiceType = "STORAGE"
	ServicePicking  ServiceType = "PICKING"
	ServicePacking  ServiceType = "PACKING"
	ServiceDelivery ServiceType = "DELIVERY"
	ServiceSupply   ServiceType = "SUPPLY"
	ServiceOther    ServiceType = "OTHER"
)

// VendorService is a priced unit of work offered by a vendor.
// Expenses and cost operations reference it as their price source.
type VendorService struct {
	VendorServiceID string          `json:"vendorServiceID"` // Primary Key (UUID)
	VendorID        string          `json:"vendorID"`        // FK -> vendors.vendor_id
	ServiceType     ServiceType     `json:"serviceType"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"` // e.g. "order", "kg", "m3"
	Price           decimal.Decimal `json:"price"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// VendorServicePriceChange is one append-only entry in a service's price history.
type VendorServicePriceChange struct {
	PriceChangeID   string          `json:"priceChangeID"` // Primary Key (UUID)
	VendorServiceID string          `json:"vendorServiceID"`
	OldPrice        decimal.Decimal `json:"oldPrice"`
	NewPrice        decimal.Decimal `json:"newPrice"`
	ChangedAt       time.Time       `json:"changedAt"`
	ChangedBy       string          `json:"changedBy"` // UserID reference
}
