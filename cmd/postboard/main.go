// Package main is the entry point for the postboard CLI.
//
// postboard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	postboard serve -c config.yaml    # Start the page server
//	postboard fetch --url <url>       # Load once and print the posts
//	postboard validate -c config.yaml # Validate configuration
//	postboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "postboard",
	Short: "A live view of a remote list of posts",
	Long: `postboard loads a list of posts from a JSON endpoint and shows it,
together with its loading and error states, as a live page.

Quick start:
  1. Create a config file (postboard.yaml)
  2. Run: postboard serve -c postboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  schedule: "@every 5m"
  source:
    url: https://jsonplaceholder.typicode.com/posts
    timeout: 10s`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this postboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "postboard %s\n", version)
		_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
