package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/leapstack-labs/leapdash/internal/logging"
)

// Output formats accepted by the output key.
var outputFormats = []string{"auto", "text", "markdown", "csv", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.base_url %q must be an http or https URL", c.API.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("api.base_url %q has no host", c.API.BaseURL))
	}

	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}

	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port %d is out of range", c.UI.Port))
	}

	if len(c.Table.PageSizes) == 0 {
		errs = append(errs, errors.New("table.page_sizes must not be empty"))
	}
	for _, size := range c.Table.PageSizes {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("table.page_sizes: %d is not positive", size))
		}
	}
	if len(c.Table.PageSizes) > 0 && !slices.Contains(c.Table.PageSizes, c.Table.DefaultPageSize) {
		errs = append(errs, fmt.Errorf("table.default_page_size %d is not one of table.page_sizes %v",
			c.Table.DefaultPageSize, c.Table.PageSizes))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	if !slices.Contains(outputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output %q must be one of %v", c.OutputFormat, outputFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
