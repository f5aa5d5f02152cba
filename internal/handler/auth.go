package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"registry-backend/internal/ledger"
	"registry-backend/internal/service"
	"registry-backend/internal/util"
)

type ActivateInput struct {
	LicenseKey string `json:"license_key"`
	APIKey     string `json:"api_key"`
}

// One message for every rejection reason so ledger state is not
// leaked to the caller.
const rejectionMessage = "authentication failed: unknown or already used license key"

// HandleActivate exchanges a license key and API key for a session
// token via the activation ledger.
func HandleActivate(c *fiber.Ctx) error {
	input := new(ActivateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if input.LicenseKey == "" || input.APIKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "license_key and api_key are required",
		})
	}

	sess, err := gate.Authenticate(c.Context(), input.LicenseKey, input.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrRejected):
			service.LogAccess(input.LicenseKey, "activate", "rejected", c.IP(), c.Get("User-Agent"))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": rejectionMessage,
			})
		case errors.Is(err, ledger.ErrSchema):
			service.LogAccess(input.LicenseKey, "activate", "schema_error", c.IP(), c.Get("User-Agent"))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "ledger misconfigured",
			})
		default:
			service.LogAccess(input.LicenseKey, "activate", "unavailable", c.IP(), c.Get("User-Agent"))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "activation ledger unavailable",
			})
		}
	}

	token, err := util.GenerateToken(tokenSecret, sess.LicenseKey, sess.BoundAPIKey, tokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "token generation failed",
		})
	}

	service.LogAccess(input.LicenseKey, "activate", "authenticated", c.IP(), c.Get("User-Agent"))
	return c.JSON(fiber.Map{
		"token": token,
	})
}
