package main

import (
	"fmt"

	"github.com/marketlane/sellermetrics/internal/insights"
	"github.com/marketlane/sellermetrics/internal/period"
	"github.com/marketlane/sellermetrics/internal/report"
	"github.com/marketlane/sellermetrics/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print overview reports as JSON lines",
		RunE:  runReport,
	}

	reportPeriod string
	reportSeller string
)

func init() {
	reportCmd.Flags().StringVarP(&reportPeriod, "period", "p", "month", "today, week, month or year")
	reportCmd.Flags().StringVarP(&reportSeller, "seller", "s", "", "seller id (default: platform and every seller)")
}

func runReport(cmd *cobra.Command, args []string) error {
	token, err := period.Parse(reportPeriod)
	if err != nil {
		return fmt.Errorf("invalid --period %q: %w", reportPeriod, err)
	}
	// stdout carries the report
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	db, err := store.New(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := insights.New(&cfg.Insights, db)
	if err != nil {
		return err
	}

	_, err = report.Write(cmd.Context(), svc, cmd.OutOrStdout(), report.Options{
		Period:   token,
		SellerId: reportSeller,
		Progress: cmd.ErrOrStderr(),
	})
	return err
}
