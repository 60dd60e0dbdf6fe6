// handlers/referral.go
package handlers

import (
	"errors"
	"log"

	"presale-backend/middleware"
	"presale-backend/models"
	"presale-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type generateCodeRequest struct {
	Address  string `json:"address" validate:"required"`
	Campaign string `json:"campaign"`
}

type conversionRequest struct {
	BuyerAddress string  `json:"buyer_address" validate:"required"`
	TxHash       string  `json:"tx_hash" validate:"required"`
	ChainID      int64   `json:"chain_id" validate:"required"`
	Amount       *string `json:"amount"`
}

func SetupReferralRoutes(app *fiber.App, referralService *services.ReferralService, conversionService *services.ConversionService) {
	// Code generation: explicit referrer action, errors surface directly.
	app.Post("/referral/code", func(c *fiber.Ctx) error {
		var req generateCodeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "address is required",
			})
		}

		code, created, err := referralService.ResolveOrCreateCode(req.Address)
		if err != nil {
			if errors.Is(err, services.ErrNotAllowListed) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "address is not an approved referrer",
				})
			}
			log.Printf("❌ [REFERRAL] Code generation failed for %s: %v", req.Address, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to generate referral code",
			})
		}

		if created {
			log.Printf("✅ [REFERRAL] New referrer registered: %s → %s", req.Address, code)
		}
		return c.JSON(fiber.Map{
			"ref_code":      code,
			"referral_link": referralService.ReferralLink(code, req.Campaign),
		})
	})

	// Conversion reporting: called by the purchase UI right after tx
	// confirmation. Attribution problems are silent no-ops; only a write
	// failure against a resolved attribution is an error.
	app.Post("/referral/conversion", func(c *fiber.Ctx) error {
		var req conversionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "buyer_address, tx_hash and chain_id are required",
			})
		}

		snap, err := models.DecodeAttributionCookie(c.Cookies(middleware.AttributionCookieName))
		if err != nil {
			// No usable attribution — the purchase still succeeded.
			snap = nil
		}

		attributed, err := conversionService.RecordConversion(snap, services.ConversionInput{
			BuyerAddress: req.BuyerAddress,
			TxHash:       req.TxHash,
			ChainID:      req.ChainID,
			Amount:       req.Amount,
		})
		if err != nil {
			log.Printf("❌ [CONVERSION] Recording failed for tx %s: %v", req.TxHash, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record conversion",
			})
		}

		return c.JSON(fiber.Map{
			"ok":         true,
			"attributed": attributed,
		})
	})

	// Referrer dashboard: the gateway authenticates the wallet and forwards
	// the address in X-Wallet-Address.
	app.Get("/referral/stats", middleware.WalletContextMiddleware(), func(c *fiber.Ctx) error {
		address := c.Locals("wallet_address").(string)

		ref, err := referralService.LookupByAddress(address)
		if err != nil {
			if errors.Is(err, services.ErrReferrerNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "no referral code for this wallet",
				})
			}
			log.Printf("❌ [REFERRAL] Stats lookup failed for %s: %v", address, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load referrer",
			})
		}

		count, err := conversionService.CountByRefCode(ref.RefCode)
		if err != nil {
			log.Printf("❌ [REFERRAL] Conversion count failed for %s: %v", ref.RefCode, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load conversions",
			})
		}
		recent, err := conversionService.RecentByRefCode(ref.RefCode, 10)
		if err != nil {
			log.Printf("❌ [REFERRAL] Recent conversions failed for %s: %v", ref.RefCode, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load conversions",
			})
		}

		return c.JSON(fiber.Map{
			"address":            ref.Address,
			"ref_code":           ref.RefCode,
			"total_conversions":  count,
			"recent_conversions": recent,
		})
	})
}
