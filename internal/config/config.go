package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/plycloud/internal/fsutil"
)

// Output body formats accepted in configuration.
const (
	FormatASCII  = "ascii"
	FormatBinary = "binary"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config holds the defaults used by the plycloud CLI. Every field is
// optional; the Get* methods supply defaults for fields left unset, so
// partial configs are safe. Command-line flags override these values.
type Config struct {
	// Synthetic height field
	Width     *int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height    *int     `json:"height,omitempty" yaml:"height,omitempty"`
	Amplitude *float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`

	// PLY output
	Format   *string `json:"format,omitempty" yaml:"format,omitempty"` // "ascii" or "binary"
	KeepGrid *bool   `json:"keep_grid,omitempty" yaml:"keep_grid,omitempty"`

	// Plot output, in inches
	PlotWidth  *float64 `json:"plot_width,omitempty" yaml:"plot_width,omitempty"`
	PlotHeight *float64 `json:"plot_height,omitempty" yaml:"plot_height,omitempty"`

	Verbose *bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a .json, .yaml or .yml file on fsys and
// validates it.
func Load(fsys fsutil.FileSystem, path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(cleanPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Width != nil && *c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", *c.Width)
	}
	if c.Height != nil && *c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", *c.Height)
	}
	if c.Format != nil {
		switch *c.Format {
		case FormatASCII, FormatBinary:
		default:
			return fmt.Errorf("format must be %q or %q, got %q", FormatASCII, FormatBinary, *c.Format)
		}
	}
	if c.PlotWidth != nil && *c.PlotWidth <= 0 {
		return fmt.Errorf("plot_width must be positive, got %f", *c.PlotWidth)
	}
	if c.PlotHeight != nil && *c.PlotHeight <= 0 {
		return fmt.Errorf("plot_height must be positive, got %f", *c.PlotHeight)
	}
	return nil
}

// GetWidth returns the width value or the default.
func (c *Config) GetWidth() int {
	if c.Width == nil {
		return 100
	}
	return *c.Width
}

// GetHeight returns the height value or the default.
func (c *Config) GetHeight() int {
	if c.Height == nil {
		return 100
	}
	return *c.Height
}

// GetAmplitude returns the amplitude value or the default.
func (c *Config) GetAmplitude() float64 {
	if c.Amplitude == nil {
		return 10
	}
	return *c.Amplitude
}

// GetASCII reports whether PLY output should use the ASCII body.
func (c *Config) GetASCII() bool {
	if c.Format == nil {
		return true
	}
	return *c.Format == FormatASCII
}

// GetKeepGrid returns the keep_grid value or the default.
func (c *Config) GetKeepGrid() bool {
	if c.KeepGrid == nil {
		return true
	}
	return *c.KeepGrid
}

// GetPlotWidth returns the plot_width value or the default.
func (c *Config) GetPlotWidth() float64 {
	if c.PlotWidth == nil {
		return 8
	}
	return *c.PlotWidth
}

// GetPlotHeight returns the plot_height value or the default.
func (c *Config) GetPlotHeight() float64 {
	if c.PlotHeight == nil {
		return 8
	}
	return *c.PlotHeight
}

// GetVerbose returns the verbose value or the default.
func (c *Config) GetVerbose() bool {
	if c.Verbose == nil {
		return false
	}
	return *c.Verbose
}
