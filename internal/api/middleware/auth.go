package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Auth gates a route behind the deployment's static API key. The key is
// accepted as a Bearer token or in the X-API-Key header; comparison is
// constant-time over SHA-256 digests.
func Auth(apiKey string) fiber.Handler {
	expected := sha256.Sum256([]byte(apiKey))

	return func(c *fiber.Ctx) error {
		presented := extractAPIKey(c)
		if presented == "" {
			return domain.ErrUnauthorized
		}

		got := sha256.Sum256([]byte(presented))
		if subtle.ConstantTimeCompare(expected[:], got[:]) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

func extractAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return strings.TrimSpace(key)
	}

	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <key>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
