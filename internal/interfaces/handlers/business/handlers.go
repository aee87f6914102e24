package business

import (
	"errors"

	bizsvc "barakah-backend/internal/application/business"
	"barakah-backend/internal/classifier"
	"barakah-backend/internal/domain"
	"barakah-backend/internal/middleware"
	"barakah-backend/internal/pkg/response"
	"barakah-backend/internal/zakat"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the business zakat calculator.
type Handlers struct {
	Service *bizsvc.Service
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

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, bizsvc.ErrLineItemNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, bizsvc.ErrInvalidClassification),
		errors.Is(err, bizsvc.ErrNameRequired),
		errors.Is(err, zakat.ErrAmountNotPositive),
		errors.Is(err, zakat.ErrNegativeAmount),
		errors.Is(err, zakat.ErrGoldPriceNotPositive),
		errors.Is(err, zakat.ErrUnknownCalendar):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// GetState GET /api/v1/business/snapshot
func (h *Handlers) GetState(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	state, err := h.Service.GetState(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Business snapshot", state, nil)
}

// SetProfile PUT /api/v1/business/profile
func (h *Handlers) SetProfile(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body bizsvc.ProfileInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	state, err := h.Service.SetProfile(c.Context(), userID, body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Profile updated", state, nil)
}

// Preview POST /api/v1/business/classify — classify a name without storing
// anything (pure dry run of the rule engine).
func (h *Handlers) Preview(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	return response.Success(c, "Classified", classifier.Classify(body.Name), nil)
}

// AddLineItem POST /api/v1/business/add-line-item
func (h *Handlers) AddLineItem(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	item, state, err := h.Service.AddLineItem(c.Context(), userID, body.Name, body.Amount)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Line item added", fiber.Map{
		"line_item": item,
		"snapshot":  state,
	}, nil)
}

// ResolveLineItem PUT /api/v1/business/resolve-line-item
func (h *Handlers) ResolveLineItem(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ItemID              string                `json:"item_id"`
		Classification      domain.Classification `json:"classification"`
		ClarificationAnswer string                `json:"clarification_answer"`
		MarketValue         *float64              `json:"market_value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for item_id", fiber.StatusBadRequest, nil)
	}
	item, state, err := h.Service.ResolveLineItem(c.Context(), userID, itemID, bizsvc.ResolveInput{
		Classification:      body.Classification,
		ClarificationAnswer: body.ClarificationAnswer,
		MarketValue:         body.MarketValue,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Line item resolved", fiber.Map{
		"line_item": item,
		"snapshot":  state,
	}, nil)
}

// RemoveLineItem POST /api/v1/business/remove-line-item
func (h *Handlers) RemoveLineItem(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ItemID string `json:"item_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for item_id", fiber.StatusBadRequest, nil)
	}
	state, err := h.Service.RemoveLineItem(c.Context(), userID, itemID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Line item removed", fiber.Map{"snapshot": state}, nil)
}

// Calculate POST /api/v1/business/calculate
func (h *Handlers) Calculate(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		GoldPricePerGram float64 `json:"gold_price_per_gram"`
		CalendarType     string  `json:"calendar_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.CalendarType == "" {
		body.CalendarType = string(domain.CalendarIslamic)
	}
	result, state, entry, err := h.Service.Calculate(c.Context(), userID, body.GoldPricePerGram, domain.CalendarType(body.CalendarType))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Zakat calculated", fiber.Map{
		"result":        result,
		"snapshot":      state,
		"history_entry": entry,
	}, nil)
}
