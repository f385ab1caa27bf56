package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		check       func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			args: nil,
			check: func(t *testing.T, cfg Config) {
				if cfg.Scene != "default" || cfg.Width != 800 || cfg.Height != 600 || cfg.Scale != 0.25 {
					t.Errorf("Unexpected defaults %+v", cfg)
				}
				if len(cfg.set) != 0 {
					t.Errorf("Expected no explicit flags, got %v", cfg.set)
				}
			},
		},
		{
			name: "explicit values",
			args: []string{"-scene", "metals", "-width", "320", "-height", "200", "-spp", "2", "-headless", "5"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Scene != "metals" || cfg.Width != 320 || cfg.Height != 200 || cfg.Samples != 2 || cfg.Headless != 5 {
					t.Errorf("Unexpected config %+v", cfg)
				}
				if !cfg.set["spp"] || cfg.set["depth"] {
					t.Errorf("Expected only explicit flags to be marked, got %v", cfg.set)
				}
			},
		},
		{name: "bad number", args: []string{"-width", "wide"}, expectError: true},
		{name: "negative headless", args: []string{"-headless", "-1"}, expectError: true},
		{name: "stray argument", args: []string{"extra"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args, &bytes.Buffer{})
			if tt.expectError {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestRenderConfig_FlagsOverrideScene(t *testing.T) {
	s := &scene.Scene{SamplingConfig: scene.SamplingConfig{SamplesPerPixel: 7, MaxDepth: 3}}

	// Scene preferences win over flag defaults
	cfg, err := parseFlags([]string{"-width", "64", "-height", "48"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	config := renderConfig(cfg, s)
	if config.SamplesPerPixel != 7 || config.MaxDepth != 3 {
		t.Errorf("Expected scene sampling 7 spp depth 3, got %d spp depth %d", config.SamplesPerPixel, config.MaxDepth)
	}
	if config.Width != 64 || config.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", config.Width, config.Height)
	}

	// Explicit flags win over the scene
	cfg, err = parseFlags([]string{"-spp", "1", "-depth", "12"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	config = renderConfig(cfg, s)
	if config.SamplesPerPixel != 1 || config.MaxDepth != 12 {
		t.Errorf("Expected flag sampling 1 spp depth 12, got %d spp depth %d", config.SamplesPerPixel, config.MaxDepth)
	}
}

func TestPrintHelp_ListsScenes(t *testing.T) {
	var out bytes.Buffer
	printHelp(&out)

	for _, info := range scene.ListScenes() {
		if !strings.Contains(out.String(), info.ID) {
			t.Errorf("Expected help to mention scene %q", info.ID)
		}
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	pixels := bytes.Repeat([]byte{10, 20, 30, 255}, 6)

	filename, err := saveSnapshot(dir, "default", pixels, 3, 2)
	if err != nil {
		t.Fatalf("saveSnapshot failed: %v", err)
	}
	if filepath.Dir(filename) != filepath.Join(dir, "default") {
		t.Errorf("Expected file under %s, got %s", filepath.Join(dir, "default"), filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open snapshot: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("Expected 3x2 image, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := saveSnapshot(dir, "default", pixels[:8], 3, 2); !errors.Is(err, renderer.ErrBufferSize) {
		t.Errorf("Expected ErrBufferSize for a short buffer, got %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{"unknown scene", []string{"-scene", "nonexistent", "-headless", "1"}, scene.ErrUnknownScene},
		{"invalid config", []string{"-spp", "0", "-headless", "1"}, renderer.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseFlags failed: %v", err)
			}
			if err := run(cfg, core.NopLogger{}); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
