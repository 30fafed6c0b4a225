package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/k-obrien/cloudflare-ddns/internal/cloudflare"
	"github.com/k-obrien/cloudflare-ddns/internal/config"
	"github.com/k-obrien/cloudflare-ddns/internal/logger"
	"github.com/k-obrien/cloudflare-ddns/internal/publicip"
	"github.com/k-obrien/cloudflare-ddns/internal/updater"
)

var dryRun bool

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without updating the record")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	opts, err := outputOptions(cmd)
	if err != nil {
		return err
	}
	log := logger.New(opts)
	log.SetDryRun(dryRun)

	configFile := args[0]
	log.Info("Loading configuration from %s", configFile)
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.CheckPermissions(configFile); err != nil {
		log.Warn("%v", err)
	}

	log.Debug("Run ID: %s", log.RunID())
	log.Debug("API token: %s", logger.MaskSecret(cfg.APIToken))
	log.Debug("Zone ID: %s", cfg.ZoneID)
	log.Debug("Domain: %s", cfg.Domain)

	// One connection pool serves all calls of the run.
	httpClient := &http.Client{}
	defer httpClient.CloseIdleConnections()

	client := cloudflare.NewClient(
		cloudflare.DefaultBaseURL, cfg.APIToken, cfg.ZoneID, cfg.Domain, httpClient, log)
	resolver := publicip.NewResolver(httpClient, publicip.DefaultServiceURL, log)

	result, err := updater.New(client, resolver, cfg.Domain, log).
		Run(cmd.Context(), updater.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	printUpdateResult(log, result, opts.JSON)
	return nil
}

func printUpdateResult(log *logger.Logger, result *updater.Result, jsonOutput bool) {
	if jsonOutput {
		message := "DNS already up to date"
		if result.Updated {
			message = "DNS updated"
		}
		log.InfoWithData(message, map[string]interface{}{
			"domain":   result.Domain,
			"recordIp": result.RecordIP,
			"publicIp": result.PublicIP,
			"updated":  result.Updated,
		})
		return
	}

	if result.Updated {
		log.Info("Updated DNS for %s: %s -> %s", result.Domain, result.RecordIP, result.PublicIP)
	} else {
		log.Info("DNS already up to date")
	}
}
