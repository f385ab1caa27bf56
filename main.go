package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
	"github.com/df07/go-realtime-pathtracer/pkg/window"
	"github.com/df07/go-realtime-pathtracer/pkg/window/ebitenwin"
)

// Config holds the command line options
type Config struct {
	Scene     string
	Width     int
	Height    int
	Scale     float64
	Samples   int
	Depth     int
	Scanlines int
	Workers   int
	Seed      uint64
	Headless  int // Frames to render offscreen; 0 opens a window
	Help      bool

	set map[string]bool // Flags given explicitly on the command line
}

// parseFlags parses command line arguments (without the program name)
func parseFlags(args []string, output io.Writer) (Config, error) {
	defaults := renderer.DefaultConfig()
	cfg := Config{}

	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Scene, "scene", "default", "Scene to render (see -help for the list)")
	fs.IntVar(&cfg.Width, "width", defaults.Width, "Window width in pixels")
	fs.IntVar(&cfg.Height, "height", defaults.Height, "Window height in pixels")
	fs.Float64Var(&cfg.Scale, "scale", defaults.LowResScale, "Resolution scale while the camera moves")
	fs.IntVar(&cfg.Samples, "spp", defaults.SamplesPerPixel, "Samples per pixel (overrides the scene)")
	fs.IntVar(&cfg.Depth, "depth", defaults.MaxDepth, "Maximum bounces per path (overrides the scene)")
	fs.IntVar(&cfg.Scanlines, "scanlines", defaults.ScanlinesPerFrame, "Rows refined per frame while the camera is still")
	fs.IntVar(&cfg.Workers, "workers", 0, "Render workers (0 = one per CPU)")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Base seed for pixel sampling")
	fs.IntVar(&cfg.Headless, "headless", 0, "Render N frames without a window and save a PNG")
	fs.BoolVar(&cfg.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.Headless < 0 {
		return Config{}, fmt.Errorf("-headless must not be negative, got %d", cfg.Headless)
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// renderConfig merges renderer defaults, scene preferences and explicit flags, in that order
func renderConfig(cfg Config, s *scene.Scene) renderer.Config {
	config := s.ApplyTo(renderer.DefaultConfig())
	config.Width = cfg.Width
	config.Height = cfg.Height
	config.LowResScale = cfg.Scale
	config.ScanlinesPerFrame = cfg.Scanlines
	config.NumWorkers = cfg.Workers
	config.Seed = cfg.Seed
	if cfg.set["spp"] {
		config.SamplesPerPixel = cfg.Samples
	}
	if cfg.set["depth"] {
		config.MaxDepth = cfg.Depth
	}
	return config
}

func printHelp(output io.Writer) {
	fmt.Fprintln(output, "Realtime Path Tracer")
	fmt.Fprintln(output, "Usage: pathtracer [options]")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Controls: W/S forward/back, A/D left/right, E/Q up/down,")
	fmt.Fprintln(output, "          drag with the left mouse button to look, F11 fullscreen, Escape quits")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(output, "  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(output)
	fmt.Fprintln(output, "With -headless N the last frame is saved to output/<scene>/render_<timestamp>.png")
}

// saveSnapshot writes pixels as a timestamped PNG under dir/<scene>/
func saveSnapshot(dir, sceneID string, pixels []byte, width, height int) (string, error) {
	img, err := renderer.ToRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}

	outputDir := filepath.Join(dir, sceneID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to save PNG: %w", err)
	}
	return filename, nil
}

// run builds the scene and drives the loop with a window or the headless presenter
func run(cfg Config, logger core.Logger) error {
	selectedScene, err := scene.New(cfg.Scene)
	if err != nil {
		return err
	}

	config := renderConfig(cfg, selectedScene)
	if err := config.Validate(); err != nil {
		return err
	}

	camera := selectedScene.NewCamera(cfg.Width, cfg.Height)
	controller := window.NewCameraController(window.DefaultControllerConfig())
	loop := window.NewLoop(camera, selectedScene.World, config, controller, logger)

	if cfg.Headless == 0 {
		winConfig := ebitenwin.DefaultConfig()
		winConfig.Width = cfg.Width
		winConfig.Height = cfg.Height
		winConfig.Title = fmt.Sprintf("Realtime Path Tracer - %s", cfg.Scene)
		return loop.Run(ebitenwin.New(winConfig))
	}

	presenter := window.NewHeadless(window.HeadlessConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    cfg.Headless,
		DeltaTime: 1.0 / 60.0,
	})

	startTime := time.Now()
	if err := loop.Run(presenter); err != nil {
		return err
	}
	logger.Printf("Rendered %d frames in %v\n", loop.Frames(), time.Since(startTime))

	pixels, width, height := presenter.LastFrame()
	filename, err := saveSnapshot("output", cfg.Scene, pixels, width, height)
	if err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	// Show help if requested
	if cfg.Help {
		printHelp(os.Stdout)
		return
	}

	logger := core.NewDefaultLogger()
	logger.Printf("Starting Realtime Path Tracer...\n")
	if model := renderer.CPUModel(); model != "" {
		logger.Printf("CPU: %s (%d logical cores)\n", model, renderer.DefaultWorkerCount())
	}

	if err := run(cfg, logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
