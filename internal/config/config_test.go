package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/gogpu/ggmark/property"
)

func writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
	if cfg.Format != "png" || cfg.RenderMode != "canvas" || cfg.Source.Type != SourceInline {
		t.Errorf("format/mode/source = %s/%s/%s", cfg.Format, cfg.RenderMode, cfg.Source.Type)
	}
	if cfg.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", cfg.Debounce, DefaultDebounce)
	}
	if got := cfg.OutputFor(); got != "ggmark.png" {
		t.Errorf("OutputFor() = %s, want ggmark.png", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeJob(t, `
width: 320
height: 200
format: html
render_mode: css
x_range: [0, 10]
y_range: [0, 5]
debounce: 1s
source:
  type: csv
  path: data/points.csv
fonts:
  serif: fonts/serif.ttf
labels:
  text: {field: name}
  text_color: red
  text_font_size: {value: 12px}
  border_line_dash: [4, 2]
  angle: {expr: "heading / 2"}
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(path)
	if cfg.Width != 320 || cfg.Height != 200 || cfg.Format != "html" || cfg.RenderMode != "css" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.XRange, []float64{0, 10}) || !reflect.DeepEqual(cfg.YRange, []float64{0, 5}) {
		t.Errorf("ranges = %v %v", cfg.XRange, cfg.YRange)
	}
	if cfg.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Debounce)
	}
	if want := filepath.Join(dir, "data", "points.csv"); cfg.Source.Path != want {
		t.Errorf("Source.Path = %s, want %s", cfg.Source.Path, want)
	}
	if want := filepath.Join(dir, "fonts", "serif.ttf"); cfg.Fonts["serif"] != want {
		t.Errorf("Fonts[serif] = %s, want %s", cfg.Fonts["serif"], want)
	}
	if want := filepath.Join(dir, "job.html"); cfg.OutputFor() != want {
		t.Errorf("OutputFor() = %s, want %s", cfg.OutputFor(), want)
	}

	tests := []struct {
		attr string
		kind property.Kind
		want string
	}{
		{"text", property.KindField, "name"},
		{"text_color", property.KindValue, "red"},
		{"text_font_size", property.KindValue, "12px"},
		{"border_line_dash", property.KindValue, ""},
		{"angle", property.KindExpr, ""},
	}
	for _, tt := range tests {
		d, ok := cfg.Labels[tt.attr]
		if !ok {
			t.Errorf("Labels[%s] missing", tt.attr)
			continue
		}
		if d.Kind() != tt.kind {
			t.Errorf("Labels[%s].Kind() = %v, want %v", tt.attr, d.Kind(), tt.kind)
		}
		switch tt.kind {
		case property.KindField:
			if d.FieldName() != tt.want {
				t.Errorf("Labels[%s] field = %s, want %s", tt.attr, d.FieldName(), tt.want)
			}
		case property.KindValue:
			if tt.want != "" && d.Constant() != tt.want {
				t.Errorf("Labels[%s] value = %v, want %s", tt.attr, d.Constant(), tt.want)
			}
		}
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	path := writeJob(t, "width: 320\nheight: 200\n")
	t.Setenv("GGMARK_WIDTH", "640")
	t.Setenv("GGMARK_HEIGHT", "480")
	t.Setenv("GGMARK_X_RANGE", "1,2")

	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	flags.Int("height", 100, "")
	flags.String("render-mode", "canvas", "")
	flags.String("format", "png", "")
	if err := flags.Parse([]string{"--height=50", "--render-mode=css", "--format=html"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 640 {
		t.Errorf("Width = %d, want 640 from env", cfg.Width)
	}
	if cfg.Height != 50 {
		t.Errorf("Height = %d, want 50 from flag", cfg.Height)
	}
	if cfg.RenderMode != "css" {
		t.Errorf("RenderMode = %s, want css from flag", cfg.RenderMode)
	}
	if !reflect.DeepEqual(cfg.XRange, []float64{1, 2}) {
		t.Errorf("XRange = %v, want [1 2] from env", cfg.XRange)
	}
}

func TestLoad_EnvRanges(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		wantX []float64
		wantY []float64
	}{
		{"x only", map[string]string{"GGMARK_X_RANGE": "1,2"}, []float64{1, 2}, nil},
		{"both", map[string]string{"GGMARK_X_RANGE": "-5,5", "GGMARK_Y_RANGE": "0.5,10"}, []float64{-5, 5}, []float64{0.5, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeJob(t, "width: 10\nheight: 10\n"), nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.XRange, tt.wantX) {
				t.Errorf("XRange = %v, want %v", cfg.XRange, tt.wantX)
			}
			if !reflect.DeepEqual(cfg.YRange, tt.wantY) {
				t.Errorf("YRange = %v, want %v", cfg.YRange, tt.wantY)
			}
		})
	}
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	path := writeJob(t, "width: 320\n")
	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	flags.Int("width", 999, "")
	if err := flags.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 {
		t.Errorf("Width = %d, want 320", cfg.Width)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero width", "width: 0\n", ErrInvalid},
		{"bad format", "format: svg\n", ErrInvalid},
		{"css to png", "render_mode: css\n", ErrInvalid},
		{"bad range", "x_range: [1]\n", ErrInvalid},
		{"csv without path", "source: {type: csv}\n", ErrInvalid},
		{"sqlite without query", "source: {type: sqlite, path: a.db}\n", ErrInvalid},
		{"unknown source", "source: {type: parquet}\n", ErrInvalid},
		{"bad declaration", "labels: {text: {field: a, value: b}}\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeJob(t, tt.body), nil)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
