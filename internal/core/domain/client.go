package domain

// Client represents a customer whose orders the warehouse fulfils.
type Client struct {
	ClientID    string `json:"clientID"` // Primary Key (UUID)
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}
