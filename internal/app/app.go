// Package app wires configuration, storage, clients, and services into a
// running Varlik instance.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/varlik-app/varlik/internal/category"
	"github.com/varlik-app/varlik/internal/clients/rates"
	"github.com/varlik-app/varlik/internal/clients/tefas"
	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/fx"
	"github.com/varlik-app/varlik/internal/interfaces"
	"github.com/varlik-app/varlik/internal/services/budget"
	"github.com/varlik-app/varlik/internal/services/ledger"
	"github.com/varlik-app/varlik/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Storage      interfaces.RecordStore
	TefasClient  *tefas.Client
	RatesClient  *rates.Client
	Ledger       *ledger.Service
	BudgetBridge *budget.Service
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services, then hydrates the
// ledger. configPath may be empty: VARLIK_CONFIG and the binary directory
// are checked before falling back to defaults.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("VARLIK_CONFIG")
	}
	if configPath == "" {
		candidate := filepath.Join(binDir, "varlik.toml")
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewRecordStore(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	tefasClient := tefas.NewClient(&config.Clients.Tefas, logger)
	ratesClient := rates.NewClient(&config.Clients.Rates, config.Currencies, logger)

	classifier := category.New(config.Currencies.Local, config.Currencies.Foreign, category.Options{
		ForeignETFs:      config.Classifier.ForeignETFs,
		CryptoExclusions: config.Classifier.CryptoExclusions,
	})
	converter := fx.New(config.Currencies.Local, config.Currencies.Foreign)

	ledgerService := ledger.NewService(store, tefasClient, ratesClient, converter, classifier, logger)
	if err := ledgerService.Load(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	budgetBridge := budget.NewService(ledgerService, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		Storage:      store,
		TefasClient:  tefasClient,
		RatesClient:  ratesClient,
		Ledger:       ledgerService,
		BudgetBridge: budgetBridge,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: drain pending ledger writes, then close storage.
func (a *App) Close() {
	if a.Ledger != nil {
		a.Ledger.Wait()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
