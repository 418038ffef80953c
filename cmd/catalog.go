package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogPrefix string

// catalogCmd is the parent command for option catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import option catalogs from object storage",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [object]",
	Short: "Import a catalog export into the option table",
	Long:  `Imports the given object, or the configured STORAGE_CATALOG_OBJECT when omitted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		object := ""
		if len(args) == 1 {
			object = args[0]
		}
		count, err := a.service.ImportCatalog(cmd.Context(), object)
		if err != nil {
			return err
		}
		a.logger.Info("Catalog import finished", zap.Int("imported", count))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog exports in the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		keys, err := a.service.ListCatalogExports(cmd.Context(), catalogPrefix)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), keys)
	},
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogPrefix, "prefix", "", "Only list objects under this prefix")
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
	RootCmd.AddCommand(catalogCmd)
}
