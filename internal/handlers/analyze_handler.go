package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
	"github.com/sqlsage/sqlsage-backend/internal/services"
	"github.com/sqlsage/sqlsage-backend/internal/sqlfmt"
)

type AnalyzeHandler struct {
	analysis *services.AnalysisService
	quota    *services.QuotaService
}

func NewAnalyzeHandler(analysis *services.AnalysisService, quota *services.QuotaService) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis, quota: quota}
}

func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := prompts.Parse(req.TaskType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	email := authctx.Email(c)
	admin := authctx.IsAdmin(c)

	resp, err := h.analysis.Analyze(c.Context(), email, admin, req.SQL, task)
	if err != nil {
		return generationError(c, err)
	}

	return c.JSON(resp)
}

// Compare runs a side-by-side analysis of two queries.
func (h *AnalyzeHandler) Compare(c *fiber.Ctx) error {
	var req dto.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	depth, err := prompts.ParseDepth(req.Depth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	resp, err := h.analysis.Compare(c.Context(), authctx.Email(c), authctx.IsAdmin(c),
		req.SQLA, req.SQLB, req.Dialect, req.Aspects, depth)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(resp)
}

// Plan generates a step-by-step execution plan for a query.
func (h *AnalyzeHandler) Plan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.analysis.Plan(c.Context(), authctx.Email(c), authctx.IsAdmin(c), req.SQL, req.Dialect)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(resp)
}

// generationError maps pipeline failures shared by every generation
// endpoint to their status codes.
func generationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrEmptyQuestion),
		errors.Is(err, services.ErrNoSchema):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrQuotaExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: true, Message: "Daily query limit reached. Try again tomorrow.",
		})
	case errors.Is(err, services.ErrServiceUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Analysis service is temporarily unavailable. Please try again.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func (h *AnalyzeHandler) Quota(c *fiber.Ctx) error {
	email := authctx.Email(c)
	admin := authctx.IsAdmin(c)

	remaining, err := h.quota.Remaining(email, admin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute quota",
		})
	}

	return c.JSON(dto.QuotaResponse{
		Remaining: remaining,
		Limit:     h.quota.Limit(),
		Unlimited: remaining == services.Unlimited,
		ResetsAt:  h.quota.ResetsAt().UTC().Format(time.RFC3339),
	})
}

func (h *AnalyzeHandler) Format(c *fiber.Ctx) error {
	var req dto.FormatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	return c.JSON(dto.FormatResponse{SQL: sqlfmt.Format(req.SQL)})
}
