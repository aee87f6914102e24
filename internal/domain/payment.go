package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ZakatPayment records one settled Stripe payment against a history entry.
// StripePaymentIntentID is unique so webhook retries stay idempotent.
type ZakatPayment struct {
	PaymentID             uuid.UUID      `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	StripePaymentIntentID string         `gorm:"column:stripe_payment_intent_id;uniqueIndex;not null" json:"stripe_payment_intent_id"`
	StripeEventID         string         `gorm:"column:stripe_event_id;uniqueIndex;not null" json:"stripe_event_id"`
	UserID                uuid.UUID      `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	HistoryEntryID        uuid.UUID      `gorm:"column:history_entry_id;type:uuid;not null" json:"history_entry_id"`
	AmountPaidCents       int            `gorm:"column:amount_paid_cents;not null" json:"amount_paid_cents"`
	Currency              string         `gorm:"column:currency;not null" json:"currency"`
	Status                string         `gorm:"column:status;not null" json:"status"`
	RawPaymentIntent      datatypes.JSON `gorm:"column:raw_payment_intent;type:jsonb;not null" json:"raw_payment_intent"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func (ZakatPayment) TableName() string {
	return "ZakatPayments"
}

func (p *ZakatPayment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
