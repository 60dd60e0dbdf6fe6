// handlers/presale.go
package handlers

import (
	"log"

	"presale-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPresaleRoutes(app *fiber.App, presaleService *services.PresaleService) {
	app.Get("/presale/rounds", func(c *fiber.Ctx) error {
		rounds, err := presaleService.ListRounds()
		if err != nil {
			log.Printf("❌ [PRESALE] Round listing failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load presale rounds",
			})
		}
		return c.JSON(fiber.Map{"rounds": rounds})
	})

	app.Get("/presale/rounds/active", func(c *fiber.Ctx) error {
		round, err := presaleService.ActiveRound()
		if err != nil {
			log.Printf("❌ [PRESALE] Active round lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load active round",
			})
		}
		return c.JSON(fiber.Map{"round": round})
	})
}
