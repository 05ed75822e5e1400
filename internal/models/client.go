package models

// Client represents a row of the clients table.
type Client struct {
	ClientID    string `db:"client_id"`
	Name        string `db:"name"`
	ContactName string `db:"contact_name"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	Notes       string `db:"notes"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
