package cmd

import (
	"product-configurator/feature/product/stream"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// streamCmd runs the DynamoDB stream consumer as a Lambda function.
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Consume DynamoDB stream batches as a Lambda handler",
	Long: `Starts the Lambda runtime loop. Each stream record is converted into a
post-commit event and reconciled against the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		h := stream.NewHandler(a.service.Pipeline(), a.logger.Named("stream"))
		a.logger.Info("Starting stream consumer")
		lambda.Start(h.HandleStream)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(streamCmd)
}
