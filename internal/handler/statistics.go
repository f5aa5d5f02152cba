package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"registry-backend/internal/service"
)

// HandleUsageStatistics aggregates the access log: activation totals
// and failures, search volume, per-day activity.
func HandleUsageStatistics(c *fiber.Ctx) error {
	days := 30
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 365 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "days must be 1-365",
			})
		}
		days = v
	}

	stats, err := service.BuildUsageStatistics(days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build statistics",
		})
	}

	return c.JSON(stats)
}

// HandleAccessLogs returns recent access-log entries for the
// authenticated session's license key.
func HandleAccessLogs(c *fiber.Ctx) error {
	sess := sessionFromClaims(c)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	logs, err := service.GetAccessLogs(sess.LicenseKey, 20)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load access logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
	})
}
