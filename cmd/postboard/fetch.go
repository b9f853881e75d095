package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/postboard"
	"github.com/jpalmerr/postboard/config"
)

// fetchCmd runs a single load and prints the resulting state.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Load the posts once and print them",
	Long: `Load the posts once and print the resulting state as text.

The source comes from a config file (-c) or directly from --url. With
neither, the public JSONPlaceholder posts endpoint is used.

Exit codes:
  0 - The load succeeded
  1 - The load failed (the error is printed)

Example:
  postboard fetch
  postboard fetch --url https://api.example.com/posts --items-path '$.data'
  postboard fetch -c config.yaml`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("config", "c", "", "path to config file")
	fetchCmd.Flags().String("url", "", "source URL (overrides the config file)")
	fetchCmd.Flags().String("items-path", "", "JSONPath locating the posts array")
	fetchCmd.Flags().Duration("timeout", 0, "request timeout")
	fetchCmd.MarkFlagsMutuallyExclusive("config", "url")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := fetchConfig(cmd)
	if err != nil {
		return err
	}

	src, err := config.BuildSource(cfg)
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}

	// load failures are reported through the printed state
	pb, err := postboard.New(
		postboard.WithSource(src),
		postboard.WithLogger(newLogger(slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("failed to create postboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, loadErr := pb.Refresh(ctx)
	if err := pb.WriteText(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if loadErr != nil {
		cmd.SilenceUsage = true
		return loadErr
	}
	return nil
}

// fetchConfig builds the configuration from -c or from the flags.
func fetchConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		parsed, err := config.Parse(nil)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	if u, _ := cmd.Flags().GetString("url"); u != "" {
		cfg.Source.URL = u
	}
	if p, _ := cmd.Flags().GetString("items-path"); p != "" {
		cfg.Source.ItemsPath = p
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d != 0 {
		cfg.Source.Timeout = config.Duration(d)
	}
	return cfg, nil
}
