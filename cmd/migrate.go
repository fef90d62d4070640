package main

import (
	"os"

	"github.com/marketlane/sellermetrics/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded read-model migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(os.Stdout)
		if err != nil {
			return err
		}
		cfg.DB.Automigrate = true
		db, err := store.New(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		db.Close()
		return nil
	},
}
