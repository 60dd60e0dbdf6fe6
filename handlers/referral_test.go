package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"presale-backend/config"
	"presale-backend/middleware"
	"presale-backend/models"
	"presale-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// notFoundDirectory simulates a directory where no code resolves.
type notFoundDirectory struct{}

func (notFoundDirectory) LookupByCode(code string) (*models.Referrer, error) {
	return nil, services.ErrCodeNotFound
}

func newReferralTestApp() *fiber.App {
	cfg := &config.Config{
		ReferralSecret:   "test-secret",
		LandingBaseURL:   "https://urano.io",
		AllowedReferrers: map[string]bool{},
		CodeLength:       12,
	}
	app := fiber.New()
	// nil DBs: these tests only exercise paths that return before storage
	referralService := services.NewReferralService(nil, cfg)
	conversionService := services.NewConversionService(nil, notFoundDirectory{})
	SetupReferralRoutes(app, referralService, conversionService)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestGenerateCodeRequiresAddress(t *testing.T) {
	app := newReferralTestApp()

	resp := postJSON(t, app, "/referral/code", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["error"])
}

func TestGenerateCodeRejectsUnlistedAddress(t *testing.T) {
	app := newReferralTestApp()

	resp := postJSON(t, app, "/referral/code", `{"address":"0xnotlisted"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestConversionValidatesRequiredFields(t *testing.T) {
	app := newReferralTestApp()

	for _, body := range []string{
		`{}`,
		`{"buyer_address":"0xdef"}`,
		`{"buyer_address":"0xdef","tx_hash":"0x123"}`,
		`{"tx_hash":"0x123","chain_id":42161}`,
	} {
		resp := postJSON(t, app, "/referral/conversion", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body %s", body)
	}
}

func TestConversionWithoutCookieIsUnattributed(t *testing.T) {
	app := newReferralTestApp()

	resp := postJSON(t, app, "/referral/conversion",
		`{"buyer_address":"0xdef","tx_hash":"0x123","chain_id":42161,"amount":"100"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["attributed"])
}

func TestConversionWithUnknownCodeIsUnattributed(t *testing.T) {
	app := newReferralTestApp()

	snap := models.AttributionSnapshot{RefCode: "stalecode"}
	value, err := snap.EncodeCookie()
	assert.NoError(t, err)

	resp := postJSON(t, app, "/referral/conversion",
		`{"buyer_address":"0xdef","tx_hash":"0x123","chain_id":42161}`,
		&http.Cookie{Name: middleware.AttributionCookieName, Value: value})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["attributed"])
}

func TestConversionWithGarbageCookieIsUnattributed(t *testing.T) {
	app := newReferralTestApp()

	resp := postJSON(t, app, "/referral/conversion",
		`{"buyer_address":"0xdef","tx_hash":"0x123","chain_id":42161}`,
		&http.Cookie{Name: middleware.AttributionCookieName, Value: "not-a-snapshot"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["attributed"])
}

func TestStatsRequiresWalletContext(t *testing.T) {
	app := newReferralTestApp()

	req := httptest.NewRequest("GET", "/referral/stats", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
