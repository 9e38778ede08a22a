// Command hrdocs answers HR document requests from a terminal: it classifies
// a plain-English request, resolves the employee, fetches payroll records and
// stores the filled payslip or tax form.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrdocs",
		Short: "Generate payslips and tax slips from plain-English requests",
		Long: `hrdocs turns requests such as "T4 for 2023 for Jordan Lee" into a
filled document stored in the output container.

Configuration is read from config.toml, an optional config.<env>.toml
overlay selected by HRDOCS_ENV, a .env file and HRDOCS_* variables.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		askCmd(),
		generateCmd(),
		inspectCmd(),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hrdocs version %s\n", version)
		},
	}
}
