package models

import (
	"database/sql"
	"time"
)

// User represents a row of the users table.
type User struct {
	UserID         string `db:"user_id"`
	Username       string `db:"username"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Role           string `db:"role"`
	PasswordHash   string `db:"password_hash"`
	AuthProvider   string `db:"auth_provider"`
	ProviderUserID string `db:"provider_user_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
