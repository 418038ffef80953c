package cmd

import (
	"product-configurator/feature/product/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the product tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the product tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if err := models.Migrate(a.db.WithContext(cmd.Context())); err != nil {
			return err
		}
		a.logger.Info("Migration completed", zap.Int("tables", len(models.All())))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
