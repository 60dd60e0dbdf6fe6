// handlers/export.go
package handlers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"presale-backend/config"
	"presale-backend/middleware"
	"presale-backend/services"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func SetupExportRoutes(app *fiber.App, exportService *services.ExportService, cfg *config.Config) {
	adminGroup := app.Group("/admin", middleware.AdminAuthMiddleware(cfg))

	adminGroup.Get("/conversions/export", func(c *fiber.Ctx) error {
		format := c.Query("format", "csv")
		if format != "csv" && format != "xlsx" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "format must be csv or xlsx",
			})
		}
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "limit must be a positive integer",
				})
			}
			limit = parsed
		}

		rows, err := exportService.FetchRecent(limit)
		if err != nil {
			log.Printf("❌ [EXPORT] Fetch failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load conversions",
			})
		}

		var data []byte
		contentType := "text/csv"
		if format == "csv" {
			data, err = services.RenderCSV(rows)
		} else {
			data, err = services.RenderXLSX(rows)
			contentType = xlsxContentType
		}
		if err != nil {
			log.Printf("❌ [EXPORT] Render failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to render export",
			})
		}

		filename := fmt.Sprintf("conversions-%s.%s", time.Now().UTC().Format("20060102"), format)
		c.Set("Content-Type", contentType)
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(data)
	})
}
