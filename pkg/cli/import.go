package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/portability"
)

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Import routes from YAML or JSON route documents",
	Long: `Import routes from YAML or JSON route documents.

Arguments may be file paths or glob patterns; ** matches any number of
directories. Every document is validated before the first route is added, so a
malformed document imports nothing. Imported routes replace stored routes with
the same name.`,
	Example: `  routestore import routes.yaml
  routestore import 'fixtures/**/*.{yaml,json}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		res, err := portability.Import(cmd.Context(), h.reg, args)
		if err != nil {
			return err
		}
		warnEphemeral(cmd, h)

		if jsonOutput {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d routes from %d files\n", res.Routes, len(res.Files))
		return nil
	}),
}

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export routes as a YAML or JSON route document",
	Example: `  routestore export > routes.yaml
  routestore export --format json -o routes.json
  routestore export --match 'users/*' -o users.yaml`,
	Args: cobra.NoArgs,
	RunE: withHost(func(cmd *cobra.Command, _ []string, h *host) error {
		format := portability.FormatUnknown
		if exportFormat != "" {
			format = portability.ParseFormat(exportFormat)
			if format == portability.FormatUnknown {
				return fmt.Errorf("unsupported export format %q (want yaml or json)", exportFormat)
			}
		}

		routes, err := h.reg.GetRoutes(cmd.Context())
		if err != nil {
			return err
		}
		routes = filterRoutes(routes, exportMatch)

		if exportOutput != "" {
			if err := portability.WriteFile(exportOutput, routes, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d routes to %s\n", len(routes), exportOutput)
			return nil
		}

		if format == portability.FormatUnknown {
			format = portability.FormatYAML
		}
		data, err := portability.Export(routes, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}),
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Document format: yaml or json (default: from --output extension, else yaml)")
	exportCmd.Flags().StringVar(&exportMatch, "match", "", "Only export routes whose name matches this glob")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
