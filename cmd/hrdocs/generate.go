package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
)

func generateCmd() *cobra.Command {
	var choice int

	cmd := &cobra.Command{
		Use:   "generate <request>",
		Short: "Run a single request",
		Example: `  hrdocs generate "payslip for 102938 from 2022-03-01 to 2022-03-31"
  hrdocs generate "T4 for 2023 for Alex Martin" --select 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			domain, err := a.infra.NewDomain(a.cfg)
			if err != nil {
				return err
			}

			var sel employees.Selector = employees.NewPromptSelector(cmd.InOrStdin(), cmd.OutOrStdout())
			if cmd.Flags().Changed("select") {
				sel = employees.FixedSelector{Index: choice - 1}
			}

			run := domain.Pipeline.Execute(cmd.Context(), strings.Join(args, " "), sel)
			printRun(cmd.OutOrStdout(), run)
			if run.State != pipeline.StatePersisted {
				return errRequestFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&choice, "select", 0, "1-based candidate to choose when the employee name is ambiguous (0 cancels)")

	return cmd
}
