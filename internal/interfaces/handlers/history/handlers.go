package history

import (
	"errors"

	histsvc "barakah-backend/internal/application/history"
	"barakah-backend/internal/middleware"
	"barakah-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the calculation history.
type Handlers struct {
	Service *histsvc.Service
}

func actorUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	raw, _ := m["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// List GET /api/v1/history/get-history
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	entries, err := h.Service.List(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Zakat history", fiber.Map{"entries": entries}, nil)
}

// MarkPaid PATCH /api/v1/history/mark-paid
func (h *Handlers) MarkPaid(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		EntryID string `json:"entry_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	entryID, err := uuid.Parse(body.EntryID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for entry_id", fiber.StatusBadRequest, nil)
	}
	entry, err := h.Service.MarkPaid(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, histsvc.ErrEntryNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Entry marked paid", fiber.Map{"entry": entry}, nil)
}
