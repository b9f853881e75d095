package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/postboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a postboard configuration file without starting the server.

This command parses the YAML, expands environment variables, validates
all fields, and compiles the items path and schema. It's useful for
CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  postboard validate -c config.yaml
  postboard validate --config /etc/postboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	src, err := config.BuildSource(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "(start only)"
	}
	schema := "default"
	if cfg.Source.Schema != "" {
		schema = cfg.Source.Schema
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Config is valid!\n")
	_, _ = fmt.Fprintf(out, "  Port:       %d\n", cfg.Port)
	_, _ = fmt.Fprintf(out, "  Schedule:   %s\n", schedule)
	_, _ = fmt.Fprintf(out, "  Source:     %s\n", src.URL())
	_, _ = fmt.Fprintf(out, "  Timeout:    %s\n", src.Timeout())
	_, _ = fmt.Fprintf(out, "  Items path: %s\n", src.ItemsPath())
	_, _ = fmt.Fprintf(out, "  Schema:     %s\n", schema)

	return nil
}
