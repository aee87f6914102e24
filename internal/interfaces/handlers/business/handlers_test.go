package business

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	bizsvc "barakah-backend/internal/application/business"
	"barakah-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBusinessTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.CalculatorState{}, &domain.ZakatHistoryEntry{},
	))
	return &Handlers{Service: &bizsvc.Service{DB: db}}, db
}

func newBizApp(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	if userID != uuid.Nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", map[string]interface{}{
				"user_id": userID.String(),
			})
			return c.Next()
		})
	}
	app.Get("/snapshot", h.GetState)
	app.Put("/profile", h.SetProfile)
	app.Post("/classify", h.Preview)
	app.Post("/add-line-item", h.AddLineItem)
	app.Put("/resolve-line-item", h.ResolveLineItem)
	app.Post("/remove-line-item", h.RemoveLineItem)
	app.Post("/calculate", h.Calculate)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func dataOf(t *testing.T, out map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := out["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", out)
	return data
}

func TestClassifyPreview(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.Nil) // classify needs no session

	status, out := doJSON(t, app, "POST", "/classify", map[string]interface{}{
		"name": "Accounts Receivable",
	})
	require.Equal(t, 200, status)
	data := dataOf(t, out)
	assert.Equal(t, "zakatable", data["classification"])

	status, out = doJSON(t, app, "POST", "/classify", map[string]interface{}{
		"name": "Investment in associates",
	})
	require.Equal(t, 200, status)
	data = dataOf(t, out)
	assert.Equal(t, "needs_clarification", data["classification"])
	assert.NotEmpty(t, data["clarification_question"])
}

func TestClassifyPreview_MissingName(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.Nil)

	status, _ := doJSON(t, app, "POST", "/classify", map[string]interface{}{})
	assert.Equal(t, 400, status)
}

func TestSetProfile(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, out := doJSON(t, app, "PUT", "/profile", map[string]interface{}{
		"company_name": "Noor Trading LLC", "industry_type": "retail",
		"cash": 50000, "receivables": 20000, "inventory": 30000, "investments": 0,
	})
	require.Equal(t, 200, status)
	data := dataOf(t, out)
	assert.Equal(t, "Noor Trading LLC", data["company_name"])
	assert.Equal(t, 50000.0, data["cash"])
}

func TestAddLineItem_AutoClassifies(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, out := doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Accounts Payable", "amount": 12000,
	})
	require.Equal(t, 201, status)
	item := dataOf(t, out)["line_item"].(map[string]interface{})
	assert.Equal(t, "deductible", item["classification"])
	assert.NotEmpty(t, item["islamic_ruling"])
}

func TestAddLineItem_UnknownNeedsClarification(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, out := doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Mystery ledger row", "amount": 500,
	})
	require.Equal(t, 201, status)
	item := dataOf(t, out)["line_item"].(map[string]interface{})
	assert.Equal(t, "needs_clarification", item["classification"])
	assert.NotEmpty(t, item["clarification_question"])
}

func TestAddLineItem_RejectsBadInput(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, _ := doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "", "amount": 100,
	})
	assert.Equal(t, 400, status)

	status, _ = doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Inventory", "amount": 0,
	})
	assert.Equal(t, 400, status)
}

func TestResolveLineItem(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	_, out := doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Deposit with supplier", "amount": 4000,
	})
	itemID := dataOf(t, out)["line_item"].(map[string]interface{})["id"].(string)

	mv := 4500.0
	status, out := doJSON(t, app, "PUT", "/resolve-line-item", map[string]interface{}{
		"item_id":              itemID,
		"classification":       "zakatable",
		"clarification_answer": "Refundable trade deposit",
		"market_value":         mv,
	})
	require.Equal(t, 200, status)
	item := dataOf(t, out)["line_item"].(map[string]interface{})
	assert.Equal(t, "zakatable", item["classification"])
	assert.Equal(t, mv, item["market_value"])
	assert.Equal(t, "Refundable trade deposit", item["clarification_answer"])
}

func TestResolveLineItem_NotFound(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, _ := doJSON(t, app, "PUT", "/resolve-line-item", map[string]interface{}{
		"item_id": uuid.New().String(), "classification": "exempt",
	})
	assert.Equal(t, 404, status)
}

func TestResolveLineItem_InvalidClassification(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	_, out := doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Prepaid rent", "amount": 900,
	})
	itemID := dataOf(t, out)["line_item"].(map[string]interface{})["id"].(string)

	status, _ := doJSON(t, app, "PUT", "/resolve-line-item", map[string]interface{}{
		"item_id": itemID, "classification": "halal",
	})
	assert.Equal(t, 400, status)
}

func TestRemoveLineItem_UnknownIDIsNoOp(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	status, _ := doJSON(t, app, "POST", "/remove-line-item", map[string]interface{}{
		"item_id": uuid.New().String(),
	})
	assert.Equal(t, 200, status)
}

func TestBusinessCalculate(t *testing.T) {
	h, db := setupBusinessTest(t)
	userID := uuid.New()
	app := newBizApp(h, userID)

	_, _ = doJSON(t, app, "PUT", "/profile", map[string]interface{}{
		"company_name": "Noor Trading LLC", "industry_type": "retail",
		"cash": 40000, "receivables": 20000, "inventory": 30000, "investments": 0,
	})
	_, _ = doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Accounts Payable", "amount": 20000,
	})

	// 90000 zakatable - 20000 deductible = 70000 net, nisab 5950 at 70/g.
	status, out := doJSON(t, app, "POST", "/calculate", map[string]interface{}{
		"gold_price_per_gram": 70,
	})
	require.Equal(t, 200, status)
	data := dataOf(t, out)
	result := data["result"].(map[string]interface{})
	assert.Equal(t, "company", result["entity_type"])
	assert.Equal(t, 70000.0, result["net_wealth"])
	assert.Equal(t, 1750.0, result["total"])

	var count int64
	require.NoError(t, db.Model(&domain.ZakatHistoryEntry{}).
		Where("user_id = ? AND entity_type = ?", userID, "company").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBusinessCalculate_NeedsClarificationExcluded(t *testing.T) {
	h, _ := setupBusinessTest(t)
	app := newBizApp(h, uuid.New())

	_, _ = doJSON(t, app, "PUT", "/profile", map[string]interface{}{
		"company_name": "Noor Trading LLC", "cash": 100000,
	})
	// Unresolved item stays out of both the zakatable and deductible sums.
	_, _ = doJSON(t, app, "POST", "/add-line-item", map[string]interface{}{
		"name": "Mystery ledger row", "amount": 50000,
	})

	status, out := doJSON(t, app, "POST", "/calculate", map[string]interface{}{
		"gold_price_per_gram": 70,
	})
	require.Equal(t, 200, status)
	result := dataOf(t, out)["result"].(map[string]interface{})
	assert.Equal(t, 100000.0, result["total_assets"])
	assert.Equal(t, 2500.0, result["total"])
}
