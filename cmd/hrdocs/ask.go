package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask",
		Short: "Answer requests interactively until quit",
		Args:  cobra.NoArgs,
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

			in := bufio.NewReader(cmd.InOrStdin())
			ask(cmd.Context(), domain.Pipeline, in, cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), "\n"+a.infra.Usage.Summary())
			return nil
		},
	}
}

// ask reads one request per line until quit, exit, q or end of input.
// Ambiguous subjects are resolved by prompting on the same streams.
func ask(ctx context.Context, exec executor, in *bufio.Reader, out io.Writer) {
	sel := employees.NewPromptSelector(in, out)

	for ctx.Err() == nil {
		fmt.Fprint(out, "\nWhat is your query? ")
		line, err := in.ReadString('\n')
		text := strings.TrimSpace(line)

		switch strings.ToLower(text) {
		case "quit", "exit", "q":
			return
		case "":
			if err != nil {
				return
			}
			continue
		}

		printRun(out, exec.Execute(ctx, text, sel))
		if err != nil {
			return
		}
	}
}
