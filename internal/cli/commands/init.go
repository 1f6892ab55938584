package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapdash/internal/cli/config"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the leapdash.yaml written by init. Keys mirror the koanf
// keys of config.Config.
type starterConfig struct {
	API struct {
		BaseURL    string `yaml:"base_url"`
		Timeout    string `yaml:"timeout"`
		Revalidate bool   `yaml:"revalidate"`
	} `yaml:"api"`
	UI struct {
		Port          int    `yaml:"port"`
		AutoOpen      bool   `yaml:"auto_open"`
		Watch         bool   `yaml:"watch"`
		StaticDir     string `yaml:"static_dir,omitempty"`
		SessionSecret string `yaml:"session_secret"`
		TableIdleTTL  string `yaml:"table_idle_ttl"`
	} `yaml:"ui"`
	Table struct {
		PageSizes       []int `yaml:"page_sizes,flow"`
		DefaultPageSize int   `yaml:"default_page_size"`
	} `yaml:"table"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var apiURL string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter leapdash.yaml",
		Long: `Write a leapdash.yaml configuration file with the default settings and a
freshly generated session secret.`,
		Example: `  # Initialize in current directory
  leapdash init

  # Point the dashboard at a local API
  leapdash init --base-url http://localhost:3000

  # Force overwrite existing config
  leapdash init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, apiURL, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&apiURL, "base-url", config.DefaultBaseURL, "API base URL to write")

	return cmd
}

func runInit(r *output.Renderer, dir, apiURL string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	secret, err := newSessionSecret()
	if err != nil {
		return err
	}

	data, err := starterYAML(apiURL, secret)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(config.ConfigFileName, "success", "")
	r.Println("")
	r.Success("leapdash configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'leapdash browse users' to check the API is reachable")
	r.Println("  2. Run 'leapdash serve' to open the dashboard")

	return nil
}

// starterYAML renders the starter config from the built-in defaults.
func starterYAML(apiURL, secret string) ([]byte, error) {
	d := config.Default()

	var s starterConfig
	s.API.BaseURL = apiURL
	s.API.Timeout = d.API.Timeout.String()
	s.API.Revalidate = d.API.Revalidate
	s.UI.Port = d.UI.Port
	s.UI.AutoOpen = d.UI.AutoOpen
	s.UI.Watch = d.UI.Watch
	s.UI.SessionSecret = secret
	s.UI.TableIdleTTL = d.UI.TableIdleTTL.String()
	s.Table.PageSizes = d.Table.PageSizes
	s.Table.DefaultPageSize = d.Table.DefaultPageSize
	s.Log.Level = d.Log.Level
	s.Log.Format = d.Log.Format

	var doc yaml.Node
	if err := doc.Encode(&s); err != nil {
		return nil, fmt.Errorf("encode starter config: %w", err)
	}
	doc.HeadComment = "leapdash configuration\nEnvironment overrides use LEAPDASH_<SECTION>__<KEY>, e.g. LEAPDASH_UI__PORT=9000"

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode starter config: %w", err)
	}
	return out, nil
}

func newSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
