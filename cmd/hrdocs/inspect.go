package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/documents"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
)

func inspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <template>",
		Short: "List the form fields of a PDF template",
		Long: `Inspect downloads a PDF template from the template container and lists
its form fields. The argument is a template name such as T4_template or a
blob key such as t4-fill-24e.pdf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			docs := documents.New(a.infra.Templates, a.infra.Output, &a.cfg.Documents, a.infra.Logger)
			return inspect(cmd.Context(), docs, render.New(nil, a.infra.Logger), args[0], asJSON, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print fields as JSON")

	return cmd
}

type templateFetcher interface {
	FetchTemplate(ctx context.Context, name string) ([]byte, error)
}

type formInspector interface {
	Inspect(template []byte) ([]render.FormField, error)
}

func inspect(ctx context.Context, docs templateFetcher, forms formInspector, name string, asJSON bool, out io.Writer) error {
	template, err := docs.FetchTemplate(ctx, name)
	if err != nil {
		return err
	}

	fields, err := forms.Inspect(template)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tNAME\tVALUE")
	for _, f := range fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Type, f.ID, f.Name, f.Value)
	}
	fmt.Fprintf(tw, "\n%d fields\n", len(fields))
	return tw.Flush()
}
