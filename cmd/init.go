package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/k-obrien/cloudflare-ddns/internal/config"
	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

var initCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Create a configuration file interactively",
	Long: `Create a configuration file interactively.

The API token is read with terminal echo disabled. The file is written with
owner-only permissions, and an existing file is never overwritten.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	opts, err := outputOptions(cmd)
	if err != nil {
		return err
	}
	log := logger.New(opts)

	configFile := args[0]

	fmt.Print("Cloudflare API token: ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API token: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	zoneID, err := prompt(reader, "Zone ID: ")
	if err != nil {
		return err
	}
	domain, err := prompt(reader, "Domain: ")
	if err != nil {
		return err
	}

	cfg := &config.Config{
		APIToken: strings.TrimSpace(string(tokenBytes)),
		ZoneID:   zoneID,
		Domain:   domain,
	}
	if cfg.APIToken == "" || cfg.ZoneID == "" || cfg.Domain == "" {
		return fmt.Errorf("api_token, zone_id and domain are all required")
	}
	log.Debug("API token: %s", logger.MaskSecret(cfg.APIToken))

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Never clobber an existing file; the token it holds may still be in use.
	f, err := os.OpenFile(configFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", configFile, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFile, err)
	}

	log.Info("Wrote %s", configFile)
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
