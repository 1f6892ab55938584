// Package config provides configuration management for the leapdash CLI.
//
// Values are layered with koanf: built-in defaults, then leapdash.yaml,
// then LEAPDASH_* environment variables, then explicitly set flags.
package config

import "time"

// Default configuration values.
const (
	DefaultBaseURL       = "https://jsonplaceholder.typicode.com"
	DefaultTimeout       = 10 * time.Second
	DefaultPort          = 8765
	DefaultTableIdleTTL  = 30 * time.Minute
	DefaultPageSize      = 10
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSessionSecret = "leapdash-dev-secret-change-in-production" //nolint:gosec
)

// ConfigFileName is the config file looked up in the project root.
const ConfigFileName = "leapdash.yaml"

const (
	alternateConfigFile = "leapdash.yml"
	envPrefix           = "LEAPDASH_"
	envNestedSeparator  = "__"
)

// DefaultPageSizes are the rows-per-page choices offered by tables.
var DefaultPageSizes = []int{5, 10, 15, 20}

// APIConfig configures the remote JSON API.
type APIConfig struct {
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	Revalidate bool          `koanf:"revalidate"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	Dev           bool          `koanf:"dev"`
	StaticDir     string        `koanf:"static_dir"`
	SessionSecret string        `koanf:"session_secret"`
	TableIdleTTL  time.Duration `koanf:"table_idle_ttl"`
}

// TableConfig configures table pagination.
type TableConfig struct {
	PageSizes       []int `koanf:"page_sizes"`
	DefaultPageSize int   `koanf:"default_page_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	SeqURL string `koanf:"seq_url"`
}

// Config holds all CLI configuration options.
type Config struct {
	API          APIConfig   `koanf:"api"`
	UI           UIConfig    `koanf:"ui"`
	Table        TableConfig `koanf:"table"`
	Log          LogConfig   `koanf:"log"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			Timeout:    DefaultTimeout,
			Revalidate: true,
		},
		UI: UIConfig{
			Port:          DefaultPort,
			AutoOpen:      true,
			SessionSecret: DefaultSessionSecret,
			TableIdleTTL:  DefaultTableIdleTTL,
		},
		Table: TableConfig{
			PageSizes:       append([]int(nil), DefaultPageSizes...),
			DefaultPageSize: DefaultPageSize,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		OutputFormat: DefaultOutput,
	}
}

// defaultsMap mirrors Default as flat koanf keys.
func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"api.base_url":            d.API.BaseURL,
		"api.timeout":             d.API.Timeout.String(),
		"api.revalidate":          d.API.Revalidate,
		"ui.port":                 d.UI.Port,
		"ui.auto_open":            d.UI.AutoOpen,
		"ui.watch":                d.UI.Watch,
		"ui.dev":                  d.UI.Dev,
		"ui.static_dir":           d.UI.StaticDir,
		"ui.session_secret":       d.UI.SessionSecret,
		"ui.table_idle_ttl":       d.UI.TableIdleTTL.String(),
		"table.page_sizes":        d.Table.PageSizes,
		"table.default_page_size": d.Table.DefaultPageSize,
		"log.level":               d.Log.Level,
		"log.format":              d.Log.Format,
		"log.seq_url":             d.Log.SeqURL,
		"verbose":                 d.Verbose,
		"output":                  d.OutputFormat,
	}
}
