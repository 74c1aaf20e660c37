package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, err := h.history.Save(authctx.Email(c), req.SQL, req.TaskType, req.Result, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save query",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *HistoryHandler) List(c *fiber.Ctx) error {
	filter := services.HistoryFilter{
		FavoritesOnly: c.QueryBool("favorites"),
		Search:        c.Query("search"),
		Limit:         c.QueryInt("limit"),
	}

	entries, err := h.history.List(authctx.Email(c), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load history",
		})
	}

	return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
}

func (h *HistoryHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry id",
		})
	}

	entry, err := h.history.ToggleFavorite(id, authctx.Email(c))
	if err != nil {
		return historyError(c, err)
	}
	return c.JSON(entry)
}

func (h *HistoryHandler) Rename(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry id",
		})
	}

	var req dto.RenameHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, err := h.history.Rename(id, authctx.Email(c), req.Name)
	if err != nil {
		return historyError(c, err)
	}
	return c.JSON(entry)
}

func (h *HistoryHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry id",
		})
	}

	if err := h.history.Delete(id, authctx.Email(c)); err != nil {
		return historyError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

func historyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You do not own this entry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
