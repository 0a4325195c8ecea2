// Package wire provides dependency injection for the backloop application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/backloop/internal/adapters/cli"
	"github.com/example/backloop/internal/adapters/sqlite"
	"github.com/example/backloop/internal/app"
	"github.com/example/backloop/internal/config"
	"github.com/example/backloop/internal/core/estimate"
	"github.com/example/backloop/internal/core/evidence"
	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/db"
	"github.com/example/backloop/internal/ports/primary"
)

var (
	cfg           *config.Config
	returnService primary.ReturnService
	cfgOnce       sync.Once
	once          sync.Once
)

// Config returns the configuration loaded from the working directory.
func Config() *config.Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

func loadConfig() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.LoadConfig(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
}

// ReturnService returns the singleton ReturnService instance.
func ReturnService() primary.ReturnService {
	once.Do(initServices)
	return returnService
}

// WizardConfig builds the session template from the loaded configuration.
func WizardConfig(c *config.Config) wizard.Config {
	addOns := make([]wizard.AddOnItem, len(c.AddOnItems))
	for i, item := range c.AddOnItems {
		addOns[i] = wizard.AddOnItem{Name: item.Name, Price: item.Price}
	}

	pricing := estimate.DefaultPricing()
	pricing.PickupFee = c.PickupFee
	pricing.FreePickupThreshold = c.FreePickupThreshold

	return wizard.Config{
		Pricing:       pricing,
		Photos:        evidence.NewPhotoInspector(c.AcceptedPhotoType, c.PhotoInspectionDelay, evidence.Sleep),
		Receipts:      evidence.NewReceiptValidator(c.ReceiptWhitelist),
		EstimateDelay: c.EstimateDelay,
		Wait:          evidence.Sleep,
		SupportPhone:  c.SupportPhone,
		AddOns:        addOns,
		CartValue:     c.DefaultCartValue,
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	orderRepo := sqlite.NewOrderRepository(database)
	confirmationRepo := sqlite.NewConfirmationRepository(database)

	logger := slog.Default()
	executor := app.NewEffectExecutor(confirmationRepo, logger, func(event, sessionID string) {
		logger.Info("session "+event, "session_id", sessionID)
	})

	returnService = app.NewReturnService(orderRepo, confirmationRepo, executor, WizardConfig(c), logger)
}

// ReturnAdapterWithOutput returns a new ReturnAdapter writing to the given
// output. Each call creates a new adapter (adapters are stateless translators).
func ReturnAdapterWithOutput(out io.Writer) *cliadapter.ReturnAdapter {
	c := Config()
	return cliadapter.NewReturnAdapter(ReturnService(), out, c.CurrencySymbol, c.PickupWindow)
}
