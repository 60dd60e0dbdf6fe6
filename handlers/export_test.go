package handlers

import (
	"net/http/httptest"
	"testing"

	"presale-backend/config"
	"presale-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newExportTestApp() *fiber.App {
	cfg := &config.Config{AdminToken: "hunter2"}
	app := fiber.New()
	// nil DB: these tests stop at auth or format validation
	SetupExportRoutes(app, services.NewExportService(nil), cfg)
	return app
}

func TestExportRequiresAdminToken(t *testing.T) {
	app := newExportTestApp()

	req := httptest.NewRequest("GET", "/admin/conversions/export?format=csv", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExportRejectsWrongToken(t *testing.T) {
	app := newExportTestApp()

	req := httptest.NewRequest("GET", "/admin/conversions/export?format=csv", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExportRejectsNonNumericLimit(t *testing.T) {
	app := newExportTestApp()

	for _, limit := range []string{"abc", "-1", "0", "10x"} {
		req := httptest.NewRequest("GET", "/admin/conversions/export?format=csv&limit="+limit, nil)
		req.Header.Set("Authorization", "Bearer hunter2")
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "limit %q", limit)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	app := newExportTestApp()

	req := httptest.NewRequest("GET", "/admin/conversions/export?format=pdf", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
