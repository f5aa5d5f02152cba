package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"registry-backend/internal/match"
	"registry-backend/internal/service"
	"registry-backend/internal/session"
	"registry-backend/internal/store"
	"registry-backend/internal/util"
)

func sessionFromClaims(c *fiber.Ctx) *session.Session {
	claims, ok := c.Locals("claims").(*util.SessionClaims)
	if !ok {
		return nil
	}
	return gate.Resume(claims.LicenseKey, claims.APIKey)
}

// HandleSearch queries both registry datasets for the authenticated
// session. Query params: regions (comma-separated), addr, name,
// policy, threshold.
func HandleSearch(c *fiber.Ctx) error {
	sess := sessionFromClaims(c)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	var regions []string
	for _, r := range strings.Split(c.Query("regions"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}

	// Absent param falls back to the configured default; an explicit
	// threshold=0 is honored and accepts every fuzzy score.
	threshold := defaultThresh
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "threshold must be 0-100",
			})
		}
		threshold = v
	}

	req := session.Request{
		Regions:   regions,
		AddrQuery: c.Query("addr"),
		NameQuery: c.Query("name"),
		Policy:    match.ParsePolicy(c.Query("policy"), defaultPolicy),
		Threshold: threshold,
	}

	res, err := sess.Search(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidQuery):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, session.ErrNotAuthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing session",
			})
		case errors.Is(err, store.ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "registry storage unavailable",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "search failed",
			})
		}
	}

	service.LogAccess(sess.LicenseKey, "search", "ok", c.IP(), c.Get("User-Agent"))
	return c.JSON(fiber.Map{
		"active": res.Active,
		"closed": res.Closed,
		"counts": fiber.Map{
			"active": len(res.Active),
			"closed": len(res.Closed),
		},
	})
}
