package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "order-service",
		Short:         "Order intake and business-day order queries",
		Long:          "order-service accepts orders over HTTP and answers recent and business-day lookback queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newCutoffCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the order-service root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}
