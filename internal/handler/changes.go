package handler

import (
	"github.com/gofiber/fiber/v2"

	"registry-backend/internal/service"
)

// HandleChanges proxies the license-changes API with the session's
// bound API key. Collaborator failures surface as an empty list, not
// an error.
func HandleChanges(c *fiber.Ctx) error {
	sess := sessionFromClaims(c)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	licenseNo := c.Params("no")
	if licenseNo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "license number required",
		})
	}

	changes := changeClient.Fetch(c.Context(), sess.BoundAPIKey, licenseNo)
	if changes == nil {
		changes = []service.ChangeInfo{}
	}

	service.LogAccess(sess.LicenseKey, "changes", "ok", c.IP(), c.Get("User-Agent"))
	return c.JSON(fiber.Map{
		"license_no": licenseNo,
		"changes":    changes,
	})
}
