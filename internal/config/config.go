// Package config loads the configuration of a label rendering job.
//
// Values are layered, later layers winning: built-in defaults, a YAML job
// file, GGMARK_ environment variables and explicitly set command line
// flags. Label attributes decode straight into property.Declaration
// values, so a job file can write
//
//	labels:
//	  text: {field: name}
//	  text_color: {field: color}
//	  text_font_size: 12px
//	  angle: {expr: "heading * 3.14159 / 180"}
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/gogpu/ggmark/property"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: GGMARK_SOURCE__PATH sets source.path.
const EnvPrefix = "GGMARK_"

// Default values.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "white"
	DefaultFormat     = "png"
	DefaultRenderMode = "canvas"
	DefaultDebounce   = 200 * time.Millisecond
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Source types.
const (
	SourceInline = "inline"
	SourceCSV    = "csv"
	SourceArrow  = "arrow"
	SourceSQLite = "sqlite"
)

// SourceConfig selects where label rows come from.
type SourceConfig struct {
	// Type is inline, csv, arrow or sqlite.
	Type string `koanf:"type"`

	// Path is the csv, arrow or sqlite file. Relative paths resolve
	// against the directory of the job file.
	Path string `koanf:"path"`

	// Query is the sqlite query.
	Query string `koanf:"query"`

	// Comma is the csv delimiter.
	Comma string `koanf:"comma"`

	// Columns holds inline data.
	Columns map[string][]any `koanf:"columns"`
}

// Config is one rendering job.
type Config struct {
	Width      int       `koanf:"width"`
	Height     int       `koanf:"height"`
	Background string    `koanf:"background"`
	Output     string    `koanf:"output"`
	Format     string    `koanf:"format"`
	RenderMode string    `koanf:"render_mode"`
	UseMap     bool      `koanf:"use_map"`
	XRange     []float64 `koanf:"x_range"`
	YRange     []float64 `koanf:"y_range"`
	Verbose    bool      `koanf:"verbose"`

	// Debounce delays re-renders in watch mode.
	Debounce time.Duration `koanf:"debounce"`

	Source SourceConfig `koanf:"source"`

	// Labels maps label set attribute names to declarations.
	Labels map[string]property.Declaration `koanf:"labels"`

	// Fonts maps a font family to a TrueType file.
	Fonts map[string]string `koanf:"fonts"`

	// File is the job file the configuration was read from, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"width":       DefaultWidth,
		"height":      DefaultHeight,
		"background":  DefaultBackground,
		"format":      DefaultFormat,
		"render_mode": DefaultRenderMode,
		"use_map":     false,
		"verbose":     false,
		"debounce":    DefaultDebounce.String(),
		"source.type": SourceInline,
	}
}

// Load reads the job file at path, which may be empty, then applies
// environment and flag overrides. Only flags the user changed override
// lower layers; dashes in flag names become underscores.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				DeclarationHook(),
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToWeakSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if path != "" {
		cfg.File = path
		cfg.resolvePaths(filepath.Dir(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var declarationType = reflect.TypeOf(property.Declaration{})

// DeclarationHook decodes raw configuration values into
// property.Declaration using property.Parse.
func DeclarationHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != declarationType {
			return data, nil
		}
		return property.Parse(data)
	}
}

func (c *Config) resolvePaths(dir string) {
	if c.Source.Path != "" && !filepath.IsAbs(c.Source.Path) {
		c.Source.Path = filepath.Join(dir, c.Source.Path)
	}
	for family, p := range c.Fonts {
		if !filepath.IsAbs(p) {
			c.Fonts[family] = filepath.Join(dir, p)
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	}
	switch c.Format {
	case "png", "html":
	default:
		return fmt.Errorf("%w: format %q, want png or html", ErrInvalid, c.Format)
	}
	switch c.RenderMode {
	case "canvas", "css":
	default:
		return fmt.Errorf("%w: render_mode %q, want canvas or css", ErrInvalid, c.RenderMode)
	}
	if c.Format == "png" && c.RenderMode == "css" {
		return fmt.Errorf("%w: css render mode needs html output", ErrInvalid)
	}
	for name, r := range map[string][]float64{"x_range": c.XRange, "y_range": c.YRange} {
		if r != nil && (len(r) != 2 || r[0] == r[1]) {
			return fmt.Errorf("%w: %s must be two distinct numbers, got %v", ErrInvalid, name, r)
		}
	}
	switch c.Source.Type {
	case SourceInline:
	case SourceCSV, SourceArrow:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: %s source needs a path", ErrInvalid, c.Source.Type)
		}
	case SourceSQLite:
		if c.Source.Path == "" || c.Source.Query == "" {
			return fmt.Errorf("%w: sqlite source needs a path and a query", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: source type %q", ErrInvalid, c.Source.Type)
	}
	if len([]rune(c.Source.Comma)) > 1 {
		return fmt.Errorf("%w: csv comma %q must be one character", ErrInvalid, c.Source.Comma)
	}
	return nil
}

// OutputFor returns the output path of the job: Output if set, otherwise
// the job file name with the format's extension.
func (c *Config) OutputFor() string {
	if c.Output != "" {
		return c.Output
	}
	base := "ggmark"
	if c.File != "" {
		base = strings.TrimSuffix(c.File, filepath.Ext(c.File))
	}
	return base + "." + c.Format
}
