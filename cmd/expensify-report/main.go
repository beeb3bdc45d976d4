package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expensify/internal/cli"
	applog "expensify/internal/log"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "expensify-report",
	Short: "Generate transaction reports from the expensify ledger",
	Long: `expensify-report reads the local transaction ledger and writes
CSV exports or plain-text account statements for a chosen period.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cli.LoadEnvFile()
		cli.SetupLogger(applog.ComponentReport)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("expensify-report %s\n", version)
		},
	}
}

func main() {
	ctx, stop := cli.SignalContext()
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
