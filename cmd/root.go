// Package cmd provides the CLI commands for the Cloudflare DDNS updater.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cloudflare-ddns [config-file]",
	Short: "Keep a Cloudflare DNS A record pointed at this machine's public IP",
	Long: `Keep a Cloudflare DNS A record pointed at this machine's public IP.

Each invocation performs one update cycle: it fetches the record published
for the configured domain, discovers the current public IP via an external
echo service, and rewrites the record when the two differ. Schedule it with
cron or a systemd timer to keep the record current.

The configuration file is a YAML mapping with three required keys:
api_token, zone_id and domain.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUpdate,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format (structured logging)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// outputOptions reads the persistent output flags into logger options.
func outputOptions(cmd *cobra.Command) (logger.Options, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return logger.Options{}, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return logger.Options{}, fmt.Errorf("failed to get json flag: %w", err)
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return logger.Options{}, fmt.Errorf("failed to get no-color flag: %w", err)
	}

	return logger.Options{
		Verbose: verbose,
		JSON:    jsonOutput,
		NoColor: noColor,
	}, nil
}
