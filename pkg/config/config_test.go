package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	if cfg.Points != 25000 {
		t.Errorf("Points = %d, want 25000", cfg.Points)
	}
	if cfg.Output.Path != "barnsley_fern_fractal.png" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if cfg.Render.Scale != 0.15 || cfg.Render.OffsetX != 1.5 || cfg.Render.OffsetY != 0.5 {
		t.Errorf("Render transform = %v/%v/%v", cfg.Render.Scale, cfg.Render.OffsetX, cfg.Render.OffsetY)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
points = 5000
seed = 7

[output]
formats = ["png", "svg"]

[render]
style = "minimal"
offset_x = 0.0

[cache]
backend = "redis"
prefix = "test:"
[cache.redis]
addr = "localhost:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Points = 5000
	want.Seed = 7
	want.Output.Formats = []string{"png", "svg"}
	want.Render.Style = render.StyleMinimal
	want.Render.OffsetX = 0
	want.Cache.Backend = BackendRedis
	want.Cache.Prefix = "test:"
	want.Cache.Redis.Addr = "localhost:6379"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
points: 1000
render:
  color: "#2e7d32"
  color_by_transform: true
cache:
  backend: mongo
  mongo:
    uri: mongodb://localhost:27017
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Points != 1000 || cfg.Render.Color != "#2e7d32" || !cfg.Render.ColorByTransform {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.Backend != BackendMongo || cfg.Cache.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Render.Scale != render.DefaultScale {
		t.Error("absent keys should keep their defaults")
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yml", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"bad toml", "c.toml", "points = [", errors.ErrCodeInvalidConfig},
		{"unknown toml key", "c.toml", "pointz = 5", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "pointz: 5", errors.ErrCodeInvalidConfig},
		{"unsupported ext", "c.json", "{}", errors.ErrCodeInvalidConfig},
		{"zero points", "c.toml", "points = 0", errors.ErrCodeInvalidConfig},
		{"negative scale", "c.toml", "[render]\nscale = -1.0", errors.ErrCodeInvalidConfig},
		{"zero scale", "c.toml", "[render]\nscale = 0.0", errors.ErrCodeInvalidConfig},
		{"nan scale", "c.toml", "[render]\nscale = nan", errors.ErrCodeInvalidConfig},
		{"inf scale", "c.yaml", "render:\n  scale: .inf", errors.ErrCodeInvalidConfig},
		{"bad format", "c.toml", "[output]\nformats = [\"gif\"]", errors.ErrCodeInvalidConfig},
		{"bad style", "c.yaml", "render:\n  style: sketchy", errors.ErrCodeInvalidConfig},
		{"bad backend", "c.toml", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"redis without addr", "c.toml", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "c.yaml", "cache:\n  backend: mongo", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() err = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "barnsley", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestLoadDefaultMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() with no file should succeed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Seed = 9
	opts := cfg.PipelineOptions()

	if opts.Points != cfg.Points || opts.Seed != 9 || opts.Scale != cfg.Render.Scale {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
	opts.Formats[0] = "svg"
	if cfg.Output.Formats[0] != "png" {
		t.Error("PipelineOptions() should copy the formats slice")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("converted options should validate: %v", err)
	}
}
