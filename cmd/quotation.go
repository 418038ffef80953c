package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// quotationCmd is the parent command for quotation operations.
var quotationCmd = &cobra.Command{
	Use:   "quotation",
	Short: "Resync and inspect quotation lines",
}

var quotationResyncCmd = &cobra.Command{
	Use:   "resync <quotation-id>",
	Short: "Rebuild the lines of a quotation from its product model",
	Long: `Deletes every line of the quotation and recreates one line per distinct
slot of the options offered for the quotation's product model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if !confirmDestructiveAction() {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		res, err := a.service.ResyncQuotation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.logger.Info("Quotation resynced",
			zap.String("quotation", args[0]),
			zap.Int("deleted", res.Deleted),
			zap.Int("created", res.Created),
		)
		return nil
	},
}

var quotationLinesCmd = &cobra.Command{
	Use:   "lines <quotation-id>",
	Short: "List the lines of a quotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		lines, err := a.service.ListQuotationLines(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), lines)
	},
}

func init() {
	quotationResyncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	quotationCmd.AddCommand(quotationResyncCmd, quotationLinesCmd)
	RootCmd.AddCommand(quotationCmd)
}
