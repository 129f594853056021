package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/varlik-app/varlik/internal/app"
	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/models"
)

func main() {
	configPath := os.Getenv("VARLIK_CONFIG")

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		a.Close()
		common.PrintShutdownBanner(a.Logger)
	}()

	common.PrintBanner(a.Config, a.Logger)

	active := a.Ledger.Active()
	if active == nil {
		a.Logger.Info().Msg("No portfolio yet; create one to start tracking")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	local := a.Config.Currencies.Local
	summary, err := a.Ledger.Summary(ctx, active.ID, local)
	if err != nil {
		a.Logger.Error().Err(err).Msg("Failed to value portfolio")
		os.Exit(1)
	}

	printSummary(summary, local)
}

func printSummary(summary *models.PortfolioSummary, currency string) {
	fmt.Printf("\n%s (%s)\n", summary.PortfolioName, currency)
	fmt.Printf("  Value:   %14.2f\n", summary.Value)
	fmt.Printf("  Cost:    %14.2f\n", summary.Cost)
	fmt.Printf("  Profit:  %14.2f (%.2f%%)\n", summary.Profit, summary.ProfitPct)
	fmt.Printf("  Cash:    %14.2f\n", summary.CashBalance)

	if len(summary.Categories) > 0 {
		fmt.Println("\n  By category:")
		for category, b := range summary.Categories {
			fmt.Printf("    %-12s %14.2f  (%+.2f%%)\n", category, b.Value, b.ProfitPct)
		}
	}
	fmt.Println()
}
