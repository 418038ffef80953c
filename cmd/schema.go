package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// schemaCmd compares the live tables with the product models.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the product tables against the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		report, err := a.service.CheckSchema(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.OK {
			return fmt.Errorf("schema check failed, run migrate")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)
}
