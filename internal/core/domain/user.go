package domain

import "time"

// UserRole gates which endpoints a user may invoke.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleAnalyst UserRole = "ANALYST"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAnalyst:
		return true
	}
	return false
}

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents an operator of the CRM.
type User struct {
	UserID       string       `json:"userID"` // Primary Key (UUID)
	Username     string       `json:"username"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         UserRole     `json:"role"`
	PasswordHash string       `json:"-"` // Empty for provider-managed users
	AuthProvider AuthProvider `json:"authProvider"`
	ProviderUserID string     `json:"-"` // Subject claim from the external provider
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo is the subset of the Google userinfo payload the app consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
