// Package config loads barnsley settings from a TOML or YAML file.
//
// The default location is $XDG_CONFIG_HOME/barnsley/config.toml, falling
// back to ~/.config/barnsley/config.toml. Every field is optional; keys that
// are absent keep the values from [Default]. Command-line flags override
// whatever the file sets.
//
//	points = 50000
//	seed = 42
//
//	[output]
//	path = "fern.png"
//	formats = ["png", "svg"]
//
//	[render]
//	style = "minimal"
//	color = "#2e7d32"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/pipeline"
	"github.com/matzehuels/barnsley/pkg/render"
)

// AppName names the config and cache directories.
const AppName = "barnsley"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var validBackends = map[string]bool{
	BackendFile:  true,
	BackendRedis: true,
	BackendMongo: true,
	BackendNone:  true,
}

// Config is the on-disk configuration.
type Config struct {
	Points int    `toml:"points" yaml:"points"`
	Seed   uint64 `toml:"seed" yaml:"seed"`

	Output Output `toml:"output" yaml:"output"`
	Render Render `toml:"render" yaml:"render"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
}

// Output controls where artifacts are written.
type Output struct {
	Path    string   `toml:"path" yaml:"path"`
	Formats []string `toml:"formats" yaml:"formats"`
}

// Render mirrors [render.Options].
type Render struct {
	Scale            float64 `toml:"scale" yaml:"scale"`
	OffsetX          float64 `toml:"offset_x" yaml:"offset_x"`
	OffsetY          float64 `toml:"offset_y" yaml:"offset_y"`
	Width            int     `toml:"width" yaml:"width"`
	Height           int     `toml:"height" yaml:"height"`
	DPI              float64 `toml:"dpi" yaml:"dpi"`
	Style            string  `toml:"style" yaml:"style"`
	Color            string  `toml:"color" yaml:"color"`
	DotSize          float64 `toml:"dot_size" yaml:"dot_size"`
	ColorByTransform bool    `toml:"color_by_transform" yaml:"color_by_transform"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string `toml:"backend" yaml:"backend"`
	Dir     string `toml:"dir" yaml:"dir"`       // file backend; empty means the XDG cache dir
	Prefix  string `toml:"prefix" yaml:"prefix"` // key prefix for shared backends

	Redis Redis `toml:"redis" yaml:"redis"`
	Mongo Mongo `toml:"mongo" yaml:"mongo"`
}

// Redis configures the redis backend.
type Redis struct {
	URL      string `toml:"url" yaml:"url"`
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// Mongo configures the mongo backend.
type Mongo struct {
	URI        string `toml:"uri" yaml:"uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Points: pipeline.DefaultPoints,
		Output: Output{
			Path:    render.DefaultSavePath,
			Formats: []string{pipeline.FormatPNG},
		},
		Render: Render{
			Scale:   render.DefaultScale,
			OffsetX: render.DefaultOffsetX,
			OffsetY: render.DefaultOffsetY,
			Width:   render.DefaultWidth,
			Height:  render.DefaultHeight,
			DPI:     render.DefaultDPI,
			Style:   render.StyleClassic,
			Color:   render.DefaultColor,
			DotSize: render.DefaultDotSize,
		},
		Cache: Cache{Backend: BackendFile},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads a config file over [Default]. The format is chosen by
// extension: .toml, .yaml or .yml. A missing file fails with FILE_NOT_FOUND;
// unknown keys and invalid values fail with INVALID_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unsupported config format %q (use .toml or .yaml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault loads the file at [DefaultPath] if it exists and returns
// [Default] otherwise.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := errors.ValidatePointCount(c.Points); err != nil {
		return invalid(err)
	}
	if err := errors.ValidateScale(c.Render.Scale); err != nil {
		return invalid(err)
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return invalid(err)
	}
	if c.Render.Style != "" {
		if err := render.ValidateStyle(c.Render.Style); err != nil {
			return invalid(err)
		}
	}
	if !validBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}
	switch c.Cache.Backend {
	case BackendRedis:
		if c.Cache.Redis.URL == "" && c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis needs url or addr")
		}
	case BackendMongo:
		if c.Cache.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo needs uri")
		}
	}
	return nil
}

// PipelineOptions converts the config into pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Points:           c.Points,
		Seed:             c.Seed,
		Formats:          append([]string(nil), c.Output.Formats...),
		Scale:            c.Render.Scale,
		OffsetX:          c.Render.OffsetX,
		OffsetY:          c.Render.OffsetY,
		Width:            c.Render.Width,
		Height:           c.Render.Height,
		DPI:              c.Render.DPI,
		Style:            c.Render.Style,
		Color:            c.Render.Color,
		DotSize:          c.Render.DotSize,
		ColorByTransform: c.Render.ColorByTransform,
	}
}

func invalid(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
}
