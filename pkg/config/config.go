// Package config loads the optional YAML settings shared by the desktop
// app and the command line tools. Every field has a default, so a missing
// file or a partial file is fine.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/chazu/foldnet/pkg/fold"
	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/kernel/manifold"
	"github.com/chazu/foldnet/pkg/kernel/sdfx"
	"github.com/chazu/foldnet/pkg/preview"
	"github.com/chazu/foldnet/pkg/progress"
	"github.com/chazu/foldnet/pkg/shape"
	"gopkg.in/yaml.v3"
)

// Shape is the request a host starts with.
type Shape struct {
	Family     shape.Family     `yaml:"family"`
	Dimensions shape.Dimensions `yaml:"dimensions"`
	ShowLabels bool             `yaml:"show_labels"`
	Centered   bool             `yaml:"centered"`
}

// Server configures the HTTP host.
type Server struct {
	Addr string `yaml:"addr"`
}

// Illustrate configures the image generation provider.
type Illustrate struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// APIKey reads the provider key from the configured environment variable.
func (i Illustrate) APIKey() string {
	if i.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(i.APIKeyEnv)
}

// Preview configures PNG rendering.
type Preview struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	Background  string  `yaml:"background"`
	FovY        float64 `yaml:"fovy"`
}

// Options returns the renderer options for these settings with the
// default camera.
func (p Preview) Options() preview.Options {
	opts := preview.DefaultOptions
	opts.Width, opts.Height, opts.Supersample = p.Width, p.Height, p.Supersample
	opts.Background, opts.FovY = p.Background, p.FovY
	return opts
}

// Config is the full settings tree.
type Config struct {
	Palette     fold.Palette `yaml:"palette"`
	Sensitivity float64      `yaml:"sensitivity"`
	Default     Shape        `yaml:"default"`
	Server      Server       `yaml:"server"`
	Illustrate  Illustrate   `yaml:"illustrate"`
	Preview     Preview      `yaml:"preview"`
	// Kernel builds reference solids: "sdfx", or "manifold" in binaries
	// built with -tags=manifold.
	Kernel string `yaml:"kernel"`
}

// ErrInvalid is matched by every validation error.
var ErrInvalid = errors.New("invalid config")

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Palette:     fold.DefaultPalette,
		Sensitivity: progress.DefaultSensitivity,
		Default: Shape{
			Family:     shape.FamilyBox,
			Dimensions: shape.Defaults(shape.FamilyBox),
			ShowLabels: true,
			Centered:   true,
		},
		Server: Server{Addr: ":8000"},
		Illustrate: Illustrate{
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta/models",
			Model:     "gemini-2.5-flash-image",
			APIKeyEnv: "GEMINI_API_KEY",
			Timeout:   60 * time.Second,
		},
		Preview: Preview{
			Width:       800,
			Height:      600,
			Supersample: 2,
			Background:  "#ffffff",
			FovY:        30,
		},
		Kernel: KernelSdfx,
	}
}

// Reference kernel names.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// OpenKernel returns the configured reference kernel.
func (c *Config) OpenKernel() (kernel.Kernel, error) {
	switch c.Kernel {
	case KernelSdfx, "":
		return sdfx.New(), nil
	case KernelManifold:
		return manifold.New()
	}
	return nil, fmt.Errorf("%w: kernel %q", ErrInvalid, c.Kernel)
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if math.IsNaN(c.Sensitivity) || c.Sensitivity <= 0 {
		return fmt.Errorf("%w: sensitivity %v must be positive", ErrInvalid, c.Sensitivity)
	}
	if !c.Default.Family.Valid() {
		return fmt.Errorf("%w: default family: %w", ErrInvalid, shape.ErrUnknownFamily)
	}
	if err := c.Default.Dimensions.Validate(c.Default.Family); err != nil {
		return fmt.Errorf("%w: default dimensions: %w", ErrInvalid, err)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("%w: preview size %dx%d", ErrInvalid, c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.Supersample < 1 {
		return fmt.Errorf("%w: preview supersample %d", ErrInvalid, c.Preview.Supersample)
	}
	switch c.Kernel {
	case KernelSdfx, KernelManifold, "":
	default:
		return fmt.Errorf("%w: kernel %q", ErrInvalid, c.Kernel)
	}
	if c.Illustrate.Timeout < 0 {
		return fmt.Errorf("%w: illustrate timeout %v", ErrInvalid, c.Illustrate.Timeout)
	}
	return nil
}

// Request returns the default shape as a full request at the given
// progress.
func (c *Config) Request(t float64) shape.Request {
	return shape.Request{
		Family:     c.Default.Family,
		Dimensions: c.Default.Dimensions,
		Progress:   t,
		Options: shape.Options{
			ShowLabels: c.Default.ShowLabels,
			Palette:    c.Palette,
		},
		Centered: c.Default.Centered,
	}
}
