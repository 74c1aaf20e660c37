package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/services"
)

// NL2SQLHandler serves natural-language query generation and the schema
// the generation is anchored to.
type NL2SQLHandler struct {
	analysis *services.AnalysisService
	schemas  *services.SchemaService
}

func NewNL2SQLHandler(analysis *services.AnalysisService, schemas *services.SchemaService) *NL2SQLHandler {
	return &NL2SQLHandler{analysis: analysis, schemas: schemas}
}

func (h *NL2SQLHandler) Generate(c *fiber.Ctx) error {
	var req dto.NL2SQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.analysis.NL2SQL(c.Context(), authctx.Email(c), authctx.IsAdmin(c),
		req.Question, req.Schema, req.Explain)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(resp)
}

func (h *NL2SQLHandler) GetSchema(c *fiber.Ctx) error {
	entry, err := h.schemas.Get(authctx.Email(c))
	if err != nil {
		if errors.Is(err, services.ErrNoSchema) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load schema",
		})
	}

	return c.JSON(dto.SchemaResponse{
		Schema:    entry.SchemaText,
		UpdatedAt: entry.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *NL2SQLHandler) SaveSchema(c *fiber.Ctx) error {
	var req dto.SaveSchemaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, err := h.schemas.Save(authctx.Email(c), req.Schema)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSchema) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save schema",
		})
	}

	return c.JSON(dto.SchemaResponse{
		Schema:    entry.SchemaText,
		UpdatedAt: entry.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *NL2SQLHandler) DeleteSchema(c *fiber.Ctx) error {
	if err := h.schemas.Clear(authctx.Email(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to clear schema",
		})
	}
	return c.JSON(fiber.Map{"message": "Schema cleared"})
}

func (h *NL2SQLHandler) Samples(c *fiber.Ctx) error {
	samples := h.schemas.Samples()
	return c.JSON(fiber.Map{"samples": samples, "count": len(samples)})
}
