package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor represents a row of the vendors table.
type Vendor struct {
	VendorID    string `db:"vendor_id"`
	Name        string `db:"name"`
	ContactName string `db:"contact_name"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	Notes       string `db:"notes"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// VendorService represents a row of the vendor_services table.
type VendorService struct {
	VendorServiceID string          `db:"vendor_service_id"`
	VendorID        string          `db:"vendor_id"`
	ServiceType     string          `db:"service_type"`
	Name            string          `db:"name"`
	Unit            string          `db:"unit"`
	Price           decimal.Decimal `db:"price"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}

// VendorServicePriceChange represents a row of the vendor_service_price_changes table.
type VendorServicePriceChange struct {
	PriceChangeID   string          `db:"price_change_id"`
	VendorServiceID string          `db:"vendor_service_id"`
	OldPrice        decimal.Decimal `db:"old_price"`
	NewPrice        decimal.Decimal `db:"new_price"`
	ChangedAt       time.Time       `db:"changed_at"`
	ChangedBy       string          `db:"changed_by"`
}
