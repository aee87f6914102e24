package payments

import (
	"errors"
	"math"
	"strconv"

	histsvc "barakah-backend/internal/application/history"
	"barakah-backend/internal/middleware"
	"barakah-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Handlers creates Stripe PaymentIntents for zakat dues.
type Handlers struct {
	History       *histsvc.Service
	StripeCreator StripePaymentIntentCreator
	Currency      string
}

// StripePaymentIntentCreator abstracts Stripe PaymentIntent creation for
// testability.
type StripePaymentIntentCreator interface {
	Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error)
}

type StripePaymentIntentResult struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// RealStripeCreator uses the Stripe Go SDK to create PaymentIntents.
type RealStripeCreator struct {
	SecretKey string
}

func (r *RealStripeCreator) Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error) {
	if r.SecretKey == "" {
		return nil, fiber.NewError(fiber.StatusNotImplemented, "Stripe integration pending")
	}
	stripe.Key = r.SecretKey
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &StripePaymentIntentResult{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
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

// PayZakat POST /api/v1/payments/pay-zakat — creates a PaymentIntent for a
// history entry's due amount. The webhook marks the entry paid once the
// payment settles.
func (h *Handlers) PayZakat(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		EntryID string `json:"entry_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.EntryID == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	entryID, err := uuid.Parse(body.EntryID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for entry_id", fiber.StatusBadRequest, nil)
	}

	entry, err := h.History.Get(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, histsvc.ErrEntryNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	if entry.Paid {
		return response.Error(c, "Entry already paid", fiber.StatusConflict, nil)
	}
	if entry.ZakatDue <= 0 {
		return response.Error(c, "Nothing due on this entry", fiber.StatusBadRequest, nil)
	}

	if h.StripeCreator == nil {
		return response.Error(c, "Stripe not configured", fiber.StatusInternalServerError, nil)
	}

	amountCents := int64(math.Round(entry.ZakatDue * 100))
	pi, err := h.StripeCreator.Create(amountCents, h.Currency, map[string]string{
		"history_entry_id": entry.EntryID.String(),
		"user_id":          userID.String(),
		"zakat_due":        strconv.FormatFloat(entry.ZakatDue, 'f', 2, 64),
	})
	if err != nil {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		return response.Error(c, err.Error(), code, nil)
	}

	return response.Success(c, "Payment intent created", fiber.Map{
		"payment_intent_id": pi.ID,
		"client_secret":     pi.ClientSecret,
	}, nil)
}
