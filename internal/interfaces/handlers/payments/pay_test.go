package payments

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	histsvc "barakah-backend/internal/application/history"
	"barakah-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStripe struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
}

func (f *fakeStripe) Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error) {
	f.lastAmount = amountCents
	f.lastCurrency = currency
	f.lastMetadata = metadata
	return &StripePaymentIntentResult{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret_abc",
	}, nil
}

func setupPayTest(t *testing.T) (*Handlers, *fakeStripe, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ZakatHistoryEntry{}, &domain.ZakatPayment{},
	))
	fs := &fakeStripe{}
	h := &Handlers{
		History:       &histsvc.Service{DB: db},
		StripeCreator: fs,
		Currency:      "usd",
	}
	return h, fs, db
}

func newPayApp(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": userID.String(),
		})
		return c.Next()
	})
	app.Post("/pay-zakat", h.PayZakat)
	return app
}

func seedHistory(t *testing.T, db *gorm.DB, userID uuid.UUID, due float64, paid bool) domain.ZakatHistoryEntry {
	t.Helper()
	entry := domain.ZakatHistoryEntry{
		UserID:         userID,
		Date:           time.Now(),
		FiscalYear:     time.Now().Year(),
		EntityType:     domain.EntityPersonal,
		TotalAssets:    due * 40,
		NetWealth:      due * 40,
		NisabThreshold: 5950,
		ZakatDue:       due,
		CalendarType:   domain.CalendarIslamic,
		MeetsNisab:     true,
		Paid:           paid,
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func postPay(t *testing.T, app *fiber.App, entryID string) (int, map[string]interface{}) {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"entry_id": entryID})
	req := httptest.NewRequest("POST", "/pay-zakat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestPayZakat_CreatesPaymentIntent(t *testing.T) {
	h, fs, db := setupPayTest(t)
	userID := uuid.New()
	app := newPayApp(h, userID)

	entry := seedHistory(t, db, userID, 2500.50, false)

	status, out := postPay(t, app, entry.EntryID.String())
	require.Equal(t, 200, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "pi_test_123", data["payment_intent_id"])
	assert.Equal(t, "pi_test_123_secret_abc", data["client_secret"])

	assert.Equal(t, int64(250050), fs.lastAmount)
	assert.Equal(t, "usd", fs.lastCurrency)
	assert.Equal(t, entry.EntryID.String(), fs.lastMetadata["history_entry_id"])
	assert.Equal(t, userID.String(), fs.lastMetadata["user_id"])
}

func TestPayZakat_AlreadyPaid(t *testing.T) {
	h, _, db := setupPayTest(t)
	userID := uuid.New()
	app := newPayApp(h, userID)

	entry := seedHistory(t, db, userID, 100, true)
	status, _ := postPay(t, app, entry.EntryID.String())
	assert.Equal(t, 409, status)
}

func TestPayZakat_NothingDue(t *testing.T) {
	h, _, db := setupPayTest(t)
	userID := uuid.New()
	app := newPayApp(h, userID)

	entry := seedHistory(t, db, userID, 0, false)
	status, _ := postPay(t, app, entry.EntryID.String())
	assert.Equal(t, 400, status)
}

func TestPayZakat_OtherUsersEntry(t *testing.T) {
	h, _, db := setupPayTest(t)
	app := newPayApp(h, uuid.New())

	entry := seedHistory(t, db, uuid.New(), 100, false)
	status, _ := postPay(t, app, entry.EntryID.String())
	assert.Equal(t, 404, status)
}
