package middleware

import (
	"context"
	"net/http"
	"strings"

	"finetune_admin/internal/auth"
	"finetune_admin/internal/config"
	"finetune_admin/internal/utils"
)

// ContextKey is the type used for request-context values set by middleware
type ContextKey string

// Context keys for storing authentication data
const (
	AdminClaimsKey ContextKey = "adminClaims"
	AdminRolesKey  ContextKey = "adminRoles"
)

// AdminJWTMiddleware validates admin session tokens and enforces role-based
// access. With no required roles any valid token passes.
func AdminJWTMiddleware(cfg *config.Config, requiredRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			claims, err := auth.ValidateAdminJWT(tokenString, cfg)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if len(requiredRoles) > 0 && !hasAnyPermission(claims.Roles, requiredRoles) {
				utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
			ctx = context.WithValue(ctx, AdminRolesKey, claims.Roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// hasAnyPermission checks the user's roles against the required ones. Admin
// passes any requirement via Role.HasPermission.
func hasAnyPermission(userRoles, requiredRoles []string) bool {
	for _, requiredRoleStr := range requiredRoles {
		requiredRole := auth.Role(requiredRoleStr)
		for _, userRoleStr := range userRoles {
			if auth.Role(userRoleStr).HasPermission(requiredRole) {
				return true
			}
		}
	}
	return false
}

// GetAdminClaims retrieves the admin claims from the request context
func GetAdminClaims(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminClaimsKey).(*auth.AdminClaims)
	return claims, ok
}

// GetAdminRoles retrieves the admin roles from the request context
func GetAdminRoles(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AdminRolesKey).([]string)
	return roles, ok
}

// HasRole checks if the request context carries a specific role
func HasRole(ctx context.Context, role string) bool {
	roles, ok := GetAdminRoles(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
