package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/k-obrien/cloudflare-ddns/internal/cloudflare"
	"github.com/k-obrien/cloudflare-ddns/internal/config"
	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

var verifyCmd = &cobra.Command{
	Use:          "verify [config-file]",
	Short:        "Verify the configured API token",
	Long:         `Verify that the API token in the configuration file is valid and active.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	opts, err := outputOptions(cmd)
	if err != nil {
		return err
	}
	log := logger.New(opts)

	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Debug("API token: %s", logger.MaskSecret(cfg.APIToken))

	httpClient := &http.Client{}
	defer httpClient.CloseIdleConnections()

	client := cloudflare.NewClient(
		cloudflare.DefaultBaseURL, cfg.APIToken, cfg.ZoneID, cfg.Domain, httpClient, log)

	status, err := client.VerifyToken(cmd.Context())
	if err != nil {
		return err
	}
	if status.Status != "active" {
		return fmt.Errorf("expected API token status to be active, got %q", status.Status)
	}

	if opts.JSON {
		log.InfoWithData("API token is active", map[string]interface{}{
			"tokenId": status.ID,
			"status":  status.Status,
		})
	} else {
		log.Info("API token is active")
	}
	return nil
}
