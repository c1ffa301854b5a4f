package auth

import (
	"errors"
	"fmt"
	"time"

	"finetune_admin/internal/config"

	"github.com/golang-jwt/jwt/v4"
)

// Role represents an admin role for role-based access control
type Role string

const (
	// RoleAdmin has full access to all admin endpoints
	RoleAdmin Role = "admin"

	// RoleViewer has read-only access to admin endpoints
	RoleViewer Role = "viewer"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a role satisfies a required role. Admin has all
// permissions; viewer only has viewer permissions.
func (r Role) HasPermission(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// AdminClaims are the claims embedded in admin session tokens.
type AdminClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// adminTokenTTL bounds an admin session; after expiry the password must be
// presented again.
const adminTokenTTL = 12 * time.Hour

// GenerateAdminJWT creates a signed admin session token with the given roles
func GenerateAdminJWT(cfg *config.Config, roles []string) (string, int64, error) {
	now := time.Now()
	expirationTime := now.Add(adminTokenTTL)

	claims := &AdminClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(cfg.JWTSecret)
	if err != nil {
		return "", 0, err
	}
	return signedToken, expirationTime.Unix(), nil
}

// ValidateAdminJWT verifies the provided admin token and returns its claims
func ValidateAdminJWT(tokenString string, cfg *config.Config) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
