package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// ExtractTenantFromHost extracts the store slug from a subdomain,
// e.g. "acme.saralbilling.in" -> "acme"
func ExtractTenantFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the active store and adds it to the context.
// Resolution order: store claim in the access token, X-Tenant-ID header,
// then subdomain slug. Membership is verified whichever way the store
// was named.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := resolveTenantID(c, tenantRepo)
		if tenantID == uuid.Nil {
			// No store selected; tenant-scoped routes guard with RequireTenant
			c.Set("tenant_id", uuid.Nil)
			c.Next()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if exists {
			userID, ok := userIDVal.(uuid.UUID)
			if ok && userID != uuid.Nil {
				isMember, _ := tenantRepo.IsMember(c.Request.Context(), tenantID, userID)
				if !isMember {
					response.Forbidden(c, "Access denied to this store")
					c.Abort()
					return
				}
			}
		}

		c.Set("tenant_id", tenantID)

		// Also set tenant ID in request context for services/repositories
		ctx := infraRepo.WithTenant(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveTenantID(c *gin.Context, tenantRepo repository.TenantRepository) uuid.UUID {
	// Token claim wins: SwitchTenant already verified membership
	if claimed, exists := c.Get("token_tenant_id"); exists {
		if id, ok := claimed.(uuid.UUID); ok && id != uuid.Nil {
			return id
		}
	}

	if header := c.GetHeader("X-Tenant-ID"); header != "" {
		if id, err := uuid.Parse(header); err == nil {
			return id
		}
	}

	slug, err := ExtractTenantFromHost(c.Request.Host)
	if err != nil {
		return uuid.Nil
	}
	tenant, err := tenantRepo.GetBySlug(c.Request.Context(), slug)
	if err != nil || tenant == nil {
		return uuid.Nil
	}
	return tenant.ID
}

// RequireTenant ensures a valid tenant context exists
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, exists := c.Get("tenant_id")
		if !exists {
			response.BadRequest(c, "Store context required")
			c.Abort()
			return
		}

		id, ok := tenantID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Store context required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
