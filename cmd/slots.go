package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// slotsCmd is the parent command for product slot operations.
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Validate, generate and list product model slots",
}

var slotsValidateCmd = &cobra.Command{
	Use:   "validate <model-id> <slot>",
	Short: "Check whether a slot number is free on a model",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if err := a.service.ValidateSlot(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		a.logger.Info("Slot is available", zap.String("model", args[0]), zap.String("slot", args[1]))
		return nil
	},
}

var slotsGenerateCmd = &cobra.Command{
	Use:   "generate <model-id>",
	Short: "Create the missing numbered slots of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		created, err := a.service.GenerateSlots(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.logger.Info("Slots generated", zap.String("model", args[0]), zap.Strings("created", created))
		return nil
	},
}

var slotsListCmd = &cobra.Command{
	Use:   "list <model-id>",
	Short: "List the slots of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		slots, err := a.service.ListSlots(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), slots)
	},
}

func init() {
	slotsCmd.AddCommand(slotsValidateCmd, slotsGenerateCmd, slotsListCmd)
	RootCmd.AddCommand(slotsCmd)
}
