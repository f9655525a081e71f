package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/zodgen/internal/cli"
)

var configShowSource bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
	Example: `  # Show effective configuration
  zodgen config show

  # Show configuration with source file path
  zodgen config show --source`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), cfg, configPath, configShowSource)
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowSource, "source", false, "show config file source")
	configCmd.AddCommand(configShowCmd)
}

func showConfig(w io.Writer, c *cli.Config, path string, source bool) error {
	if source {
		if path != "" {
			fmt.Fprintf(w, "Config file: %s\n\n", path)
		} else {
			fmt.Fprint(w, "Config file: (none, using defaults)\n\n")
		}
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return cli.GeneralError("encoding configuration", err)
	}
	_, err = w.Write(out)
	return err
}
