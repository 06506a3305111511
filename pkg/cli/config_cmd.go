package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the effective configuration after defaults, the config file,
ROUTESTORE_* environment variables and flags have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, cfg)
		}
		data, err := cfg.Encode(configFormat)
		if err != nil {
			return err
		}
		if p := cfg.Path(); p != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", p)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml or toml")
	rootCmd.AddCommand(configCmd)
}
