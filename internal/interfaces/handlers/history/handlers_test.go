package history

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

func setupHistoryTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ZakatHistoryEntry{}))
	return &Handlers{Service: &histsvc.Service{DB: db}}, db
}

func newHistoryApp(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": userID.String(),
		})
		return c.Next()
	})
	app.Get("/get-history", h.List)
	app.Patch("/mark-paid", h.MarkPaid)
	return app
}

func seedEntry(t *testing.T, db *gorm.DB, userID uuid.UUID, due float64, when time.Time) domain.ZakatHistoryEntry {
	t.Helper()
	entry := domain.ZakatHistoryEntry{
		UserID:          userID,
		Date:            when,
		FiscalYear:      when.Year(),
		EntityType:      domain.EntityPersonal,
		TotalAssets:     due * 40,
		TotalDeductions: 0,
		NetWealth:       due * 40,
		NisabThreshold:  5950,
		ZakatDue:        due,
		CalendarType:    domain.CalendarIslamic,
		MeetsNisab:      true,
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func TestList_ReturnsOwnEntriesNewestFirst(t *testing.T) {
	h, db := setupHistoryTest(t)
	userID := uuid.New()
	app := newHistoryApp(h, userID)

	older := seedEntry(t, db, userID, 100, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := seedEntry(t, db, userID, 200, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	seedEntry(t, db, uuid.New(), 300, time.Now()) // someone else's

	req := httptest.NewRequest("GET", "/get-history", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	entries := out["data"].(map[string]interface{})["entries"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	assert.Equal(t, newer.EntryID.String(), first["entry_id"])
	assert.Equal(t, older.EntryID.String(), second["entry_id"])
}

func TestMarkPaid(t *testing.T) {
	h, db := setupHistoryTest(t)
	userID := uuid.New()
	app := newHistoryApp(h, userID)

	entry := seedEntry(t, db, userID, 150, time.Now())

	body, _ := json.Marshal(map[string]interface{}{"entry_id": entry.EntryID.String()})
	req := httptest.NewRequest("PATCH", "/mark-paid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var stored domain.ZakatHistoryEntry
	require.NoError(t, db.First(&stored, "entry_id = ?", entry.EntryID).Error)
	assert.True(t, stored.Paid)
	// Only the paid flag moves; the assessment snapshot is immutable.
	assert.Equal(t, entry.ZakatDue, stored.ZakatDue)
	assert.Equal(t, entry.NetWealth, stored.NetWealth)
}

func TestMarkPaid_OtherUsersEntry(t *testing.T) {
	h, db := setupHistoryTest(t)
	app := newHistoryApp(h, uuid.New())

	entry := seedEntry(t, db, uuid.New(), 150, time.Now())

	body, _ := json.Marshal(map[string]interface{}{"entry_id": entry.EntryID.String()})
	req := httptest.NewRequest("PATCH", "/mark-paid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMarkPaid_BadUUID(t *testing.T) {
	h, _ := setupHistoryTest(t)
	app := newHistoryApp(h, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{"entry_id": "not-a-uuid"})
	req := httptest.NewRequest("PATCH", "/mark-paid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
