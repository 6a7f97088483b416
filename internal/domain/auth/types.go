package auth

import (
	"strings"
	"time"
)

// Config drives token verification.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Role gates access to the admin and agent surfaces.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw claim onto a known role. Anything unrecognised is a customer.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleAgent:
		return RoleAgent
	default:
		return RoleCustomer
	}
}

// Claims are extracted from a verified bearer token.
type Claims struct {
	UserID    string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// IssueRequest describes a token to mint for local development.
type IssueRequest struct {
	UserID string
	Email  string
	Role   Role
	TTL    time.Duration
}
