// middleware/wallet_context.go
package middleware

import (
	"log"

	"presale-backend/refcode"

	"github.com/gofiber/fiber/v2"
)

// WalletContextMiddleware extracts the caller's wallet address set by the
// fronting gateway after signature verification. Routes behind it get the
// normalized address in c.Locals("wallet_address").
func WalletContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := refcode.Normalize(c.Get("X-Wallet-Address"))
		if address == "" {
			log.Printf("❌ [WALLET_CTX] X-Wallet-Address required but missing on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Wallet-Address — request must come through gateway with wallet context",
			})
		}

		c.Locals("wallet_address", address)
		return c.Next()
	}
}
