package middleware

import (
	"errors"
	"net"
	"strings"

	"dzemat-platform/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantMiddleware resolves the acting tenant from the X-Tenant-ID header
// or, failing that, the first Host label as a subdomain. Resolution happens
// exactly once per request and fails closed: no tenant, no storage access.
func TenantMiddleware(db *gorm.DB, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tenant models.Tenant
		var err error

		if id := c.Get("X-Tenant-ID"); id != "" {
			err = db.Where("id = ?", id).First(&tenant).Error
		} else if sub := subdomainOf(c.Hostname()); sub != "" {
			err = db.Where("subdomain = ?", sub).First(&tenant).Error
		} else {
			logger.Warn("tenant: no identifier on request", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "tenant could not be resolved",
			})
		}

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "unknown tenant",
				})
			}
			logger.Error("tenant: lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "tenant lookup failed",
			})
		}

		if !tenant.Active {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "tenant is deactivated",
			})
		}

		c.Locals("tenant_id", tenant.ID)
		c.Locals("tenant", &tenant)
		return c.Next()
	}
}

// TenantID returns the tenant resolved for this request. Only callable
// behind TenantMiddleware.
func TenantID(c *fiber.Ctx) string {
	return c.Locals("tenant_id").(string)
}

// subdomainOf extracts the first label of a host with at least three
// labels. "berlin.dzematapp.com" → "berlin"; bare domains, IPs and
// localhost yield "".
func subdomainOf(hostname string) string {
	host := hostname
	if h, _, err := net.SplitHostPort(hostname); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	sub := labels[0]
	if sub == "www" {
		return ""
	}
	return sub
}
