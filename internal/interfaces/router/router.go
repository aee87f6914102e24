package router

import (
	"net/http"

	authsvc "barakah-backend/internal/application/auth"
	bizsvc "barakah-backend/internal/application/business"
	calcsvc "barakah-backend/internal/application/calculator"
	histsvc "barakah-backend/internal/application/history"
	"barakah-backend/internal/config"
	"barakah-backend/internal/infrastructure/database"
	authhandler "barakah-backend/internal/interfaces/handlers/auth"
	bizhandler "barakah-backend/internal/interfaces/handlers/business"
	calchandler "barakah-backend/internal/interfaces/handlers/calculator"
	healthhandler "barakah-backend/internal/interfaces/handlers/health"
	histhandler "barakah-backend/internal/interfaces/handlers/history"
	payhandler "barakah-backend/internal/interfaces/handlers/payments"
	"barakah-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the fiber app with all middleware and routes wired.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Stripe posts raw JSON with its own signature header, so the webhook
	// mounts before the session middleware.
	stripeWebhook := &payhandler.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
		stripeWebhook.DB = db
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		DB:         db,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		// Individual calculator
		cs := &calcsvc.Service{DB: db}
		ch := &calchandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/calculator", middleware.RequireAuth())
		cg.Get("/snapshot", ch.GetSnapshot)
		cg.Post("/add-entry", ch.AddEntry)
		cg.Put("/update-entry", ch.UpdateEntry)
		cg.Post("/remove-entry", ch.RemoveEntry)
		cg.Post("/add-gold", ch.AddGold)
		cg.Post("/remove-gold", ch.RemoveGold)
		cg.Put("/deductions", ch.SetDeductions)
		cg.Post("/calculate", ch.Calculate)

		// Business calculator
		bs := &bizsvc.Service{DB: db}
		bh := &bizhandler.Handlers{Service: bs}
		bg := app.Group("/api/v1/business", middleware.RequireAuth())
		bg.Get("/snapshot", bh.GetState)
		bg.Put("/profile", bh.SetProfile)
		bg.Post("/classify", bh.Preview)
		bg.Post("/add-line-item", bh.AddLineItem)
		bg.Put("/resolve-line-item", bh.ResolveLineItem)
		bg.Post("/remove-line-item", bh.RemoveLineItem)
		bg.Post("/calculate", bh.Calculate)

		// History
		hs := &histsvc.Service{DB: db}
		histh := &histhandler.Handlers{Service: hs}
		hg := app.Group("/api/v1/history", middleware.RequireAuth())
		hg.Get("/get-history", histh.List)
		hg.Patch("/mark-paid", histh.MarkPaid)

		// Payments
		ph := &payhandler.Handlers{
			History:       hs,
			StripeCreator: &payhandler.RealStripeCreator{SecretKey: cfg.StripeSecretKey},
			Currency:      cfg.PaymentCurrency,
		}
		pg := app.Group("/api/v1/payments", middleware.RequireAuth())
		pg.Post("/pay-zakat", ph.PayZakat)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
