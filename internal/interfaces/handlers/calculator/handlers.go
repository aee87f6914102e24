package calculator

import (
	"errors"

	calcsvc "barakah-backend/internal/application/calculator"
	"barakah-backend/internal/domain"
	"barakah-backend/internal/middleware"
	"barakah-backend/internal/pkg/response"
	"barakah-backend/internal/zakat"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the personal zakat calculator.
type Handlers struct {
	Service *calcsvc.Service
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

func isValidationErr(err error) bool {
	return errors.Is(err, zakat.ErrAmountNotPositive) ||
		errors.Is(err, zakat.ErrNegativeAmount) ||
		errors.Is(err, zakat.ErrNegativeRate) ||
		errors.Is(err, zakat.ErrRateNotPositive) ||
		errors.Is(err, zakat.ErrAmountNotFinite) ||
		errors.Is(err, zakat.ErrRateNotFinite) ||
		errors.Is(err, zakat.ErrUnknownCategory) ||
		errors.Is(err, zakat.ErrUnknownKarat) ||
		errors.Is(err, zakat.ErrWeightNotPositive) ||
		errors.Is(err, zakat.ErrPriceNotPositive) ||
		errors.Is(err, zakat.ErrGoldPriceNotPositive) ||
		errors.Is(err, zakat.ErrUnknownCalendar)
}

func fail(c *fiber.Ctx, err error) error {
	if isValidationErr(err) {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// GetSnapshot GET /api/v1/calculator/snapshot
func (h *Handlers) GetSnapshot(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	snap, err := h.Service.GetSnapshot(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Calculator snapshot", snap, nil)
}

// AddEntry POST /api/v1/calculator/add-entry
func (h *Handlers) AddEntry(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Category     string  `json:"category"`
		Name         string  `json:"name"`
		Description  string  `json:"description"`
		Amount       float64 `json:"amount"`
		Currency     string  `json:"currency"`
		ExchangeRate float64 `json:"exchange_rate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.Category == "" || body.Name == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.Currency == "" {
		body.Currency = "USD"
	}
	if body.ExchangeRate == 0 {
		body.ExchangeRate = 1
	}

	entry, snap, err := h.Service.AddSubEntry(c.Context(), userID, domain.Category(body.Category), zakat.SubEntryInput{
		Name:         body.Name,
		Description:  body.Description,
		Amount:       body.Amount,
		Currency:     body.Currency,
		ExchangeRate: body.ExchangeRate,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Entry added", fiber.Map{
		"entry":    entry,
		"snapshot": snap,
	}, nil)
}

// UpdateEntry PUT /api/v1/calculator/update-entry
func (h *Handlers) UpdateEntry(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Category     string   `json:"category"`
		EntryID      string   `json:"entry_id"`
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		Amount       *float64 `json:"amount"`
		Currency     *string  `json:"currency"`
		ExchangeRate *float64 `json:"exchange_rate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	entryID, err := uuid.Parse(body.EntryID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for entry_id", fiber.StatusBadRequest, nil)
	}

	entry, snap, err := h.Service.UpdateSubEntry(c.Context(), userID, domain.Category(body.Category), entryID, zakat.SubEntryPatch{
		Name:         body.Name,
		Description:  body.Description,
		Amount:       body.Amount,
		Currency:     body.Currency,
		ExchangeRate: body.ExchangeRate,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Entry updated", fiber.Map{
		"entry":    entry, // nil when the id no longer exists
		"snapshot": snap,
	}, nil)
}

// RemoveEntry POST /api/v1/calculator/remove-entry
func (h *Handlers) RemoveEntry(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Category string `json:"category"`
		EntryID  string `json:"entry_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	entryID, err := uuid.Parse(body.EntryID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for entry_id", fiber.StatusBadRequest, nil)
	}
	snap, err := h.Service.RemoveSubEntry(c.Context(), userID, domain.Category(body.Category), entryID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Entry removed", fiber.Map{"snapshot": snap}, nil)
}

// AddGold POST /api/v1/calculator/add-gold
func (h *Handlers) AddGold(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Karat        string  `json:"karat"`
		WeightGrams  float64 `json:"weight_grams"`
		PricePerGram float64 `json:"price_per_gram"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	entry, snap, err := h.Service.AddGoldEntry(c.Context(), userID, zakat.GoldInput{
		Karat:        domain.Karat(body.Karat),
		WeightGrams:  body.WeightGrams,
		PricePerGram: body.PricePerGram,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Gold entry added", fiber.Map{
		"entry":    entry,
		"snapshot": snap,
	}, nil)
}

// RemoveGold POST /api/v1/calculator/remove-gold
func (h *Handlers) RemoveGold(c *fiber.Ctx) error {
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
	snap, err := h.Service.RemoveGoldEntry(c.Context(), userID, entryID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Gold entry removed", fiber.Map{"snapshot": snap}, nil)
}

// SetDeductions PUT /api/v1/calculator/deductions
func (h *Handlers) SetDeductions(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body domain.IndividualDeductions
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	snap, err := h.Service.SetDeductions(c.Context(), userID, body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deductions updated", fiber.Map{"snapshot": snap}, nil)
}

// Calculate POST /api/v1/calculator/calculate
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
	result, snap, entry, err := h.Service.Calculate(c.Context(), userID, body.GoldPricePerGram, domain.CalendarType(body.CalendarType))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Zakat calculated", fiber.Map{
		"result":        result,
		"snapshot":      snap,
		"history_entry": entry,
	}, nil)
}
