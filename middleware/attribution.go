// middleware/attribution.go
package middleware

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"presale-backend/config"
	"presale-backend/models"
	"presale-backend/refcode"

	"github.com/gofiber/fiber/v2"
)

// AttributionCookieName is the authoritative first-touch cookie. The
// conversion recorder reads this and nothing else.
const AttributionCookieName = "urano_ref"

// AttributionCookieMaxAge is 30 days, in seconds.
const AttributionCookieMaxAge = 30 * 24 * 60 * 60

// RefParam is the inbound query parameter carrying a referral code.
const RefParam = "ref"

// AttributionMiddleware captures first-touch referral attribution on the
// server side, independent of client JavaScript. Rules:
//
//   - no ?ref= parameter, or a malformed one: pass through untouched
//   - an attribution cookie already on the request: pass through untouched
//     (first-touch wins, whatever the new code is)
//   - otherwise: set the http-only urano_ref cookie with the code, any UTM
//     tags present, and the capture time
//
// It never blocks a request or changes its status; the only effect is a
// conditional Set-Cookie on the response.
func AttributionMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isStaticAssetPath(c.Path()) {
			return c.Next()
		}

		code := strings.TrimSpace(c.Query(RefParam))
		if code == "" {
			return c.Next()
		}
		if !refcode.Valid(code) {
			log.Printf("[ATTRIBUTION] Ignoring malformed ref code on %s", c.Path())
			return c.Next()
		}

		// First-touch wins: an existing cookie is never overwritten.
		if c.Cookies(AttributionCookieName) != "" {
			return c.Next()
		}

		snap := models.AttributionSnapshot{
			RefCode:     code,
			UTMSource:   strings.TrimSpace(c.Query("utm_source")),
			UTMMedium:   strings.TrimSpace(c.Query("utm_medium")),
			UTMCampaign: strings.TrimSpace(c.Query("utm_campaign")),
			UTMContent:  strings.TrimSpace(c.Query("utm_content")),
			UTMTerm:     strings.TrimSpace(c.Query("utm_term")),
			FirstSeenAt: time.Now().UTC(),
		}

		value, err := snap.EncodeCookie()
		if err != nil {
			log.Printf("[ATTRIBUTION] Failed to encode snapshot: %v", err)
			return c.Next()
		}

		c.Cookie(&fiber.Cookie{
			Name:     AttributionCookieName,
			Value:    value,
			Path:     "/",
			MaxAge:   AttributionCookieMaxAge,
			HTTPOnly: true,
			Secure:   cfg.IsProduction(),
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		log.Printf("✅ [ATTRIBUTION] First-touch captured: code=%s path=%s", code, c.Path())

		return c.Next()
	}
}

// isStaticAssetPath filters out paths the attribution capture should never
// look at: served assets and anything with a file extension.
func isStaticAssetPath(path string) bool {
	if strings.HasPrefix(path, "/uploads") || strings.HasPrefix(path, "/assets") {
		return true
	}
	return filepath.Ext(path) != ""
}
