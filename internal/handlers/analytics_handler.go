package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/services"
)

const defaultSummaryWindow = 30 * 24 * time.Hour

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	to := time.Now()
	from := to.Add(-defaultSummaryWindow)

	if s := c.Query("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid from date",
			})
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid to date",
			})
		}
		to = t
	}

	summary, err := h.analytics.Summary(authctx.IsAdmin(c), from, to)
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(summary)
}

func (h *AnalyticsHandler) Trend(c *fiber.Ctx) error {
	points, err := h.analytics.Trend(authctx.IsAdmin(c), c.QueryInt("days", 7))
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(fiber.Map{"trend": points})
}

func (h *AnalyticsHandler) Errors(c *fiber.Ctx) error {
	failures, err := h.analytics.RecentErrors(authctx.IsAdmin(c), c.QueryInt("limit", 20))
	if err != nil {
		return analyticsError(c, err)
	}
	return c.JSON(fiber.Map{"errors": failures, "count": len(failures)})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func analyticsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
