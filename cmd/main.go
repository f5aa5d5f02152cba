package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"registry-backend/internal/config"
	"registry-backend/internal/database"
	"registry-backend/internal/handler"
	"registry-backend/internal/ledger"
	"registry-backend/internal/match"
	"registry-backend/internal/middleware"
	"registry-backend/internal/service"
	"registry-backend/internal/session"
	"registry-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config: ", err)
	}

	if err := database.InitDB(cfg.Dataset.Path); err != nil {
		log.Fatal("open registry dataset: ", err)
	}

	ledgerStore, err := newLedgerStore(cfg)
	if err != nil {
		log.Fatal("ledger store: ", err)
	}
	ledgerClient := ledger.NewClient(ledgerStore, ledger.BindingMode(cfg.Ledger.BindingMode))

	gate := session.NewGate(ledgerClient, store.New(database.DB)).
		WithTimeouts(cfg.Ledger.Timeout, cfg.Dataset.Timeout)
	changeClient := service.NewChangeClient(cfg.Change.BaseURL, cfg.Change.Timeout)

	handler.Init(handler.Options{
		Gate:          gate,
		ChangeClient:  changeClient,
		TokenSecret:   cfg.Server.TokenSecret,
		TokenTTL:      cfg.Server.TokenTTL,
		DefaultPolicy: match.Policy(cfg.Search.DefaultPolicy),
		Threshold:     cfg.Search.Threshold,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/activate", handler.HandleActivate)

	protected := api.Group("/", middleware.Auth(cfg.Server.TokenSecret))
	protected.Get("/search", handler.HandleSearch)
	protected.Get("/licenses/:no/changes", handler.HandleChanges)
	protected.Get("/access-logs", handler.HandleAccessLogs)

	api.Get("/usage/statistics", handler.HandleUsageStatistics)

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)))
}

// newLedgerStore picks the Sheets backend, or an empty in-memory
// ledger when activation is disabled (local development).
func newLedgerStore(cfg *config.Config) (ledger.Store, error) {
	if !cfg.Ledger.Enabled {
		log.Println("activation ledger disabled; all keys will be rejected")
		return ledger.NewMemStore(
			[]string{"licensekey", "used", "last_access", "api_key"}, nil,
		), nil
	}
	return ledger.NewSheetStore(
		context.Background(),
		cfg.Ledger.CredentialPath,
		cfg.Ledger.SpreadsheetID,
		cfg.Ledger.SheetName,
	)
}
