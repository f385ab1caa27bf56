package server

import (
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string  `json:"scene"`     // Scene ID (e.g., "default")
	Width     int     `json:"width"`     // Image width
	Height    int     `json:"height"`    // Image height
	Scale     float64 `json:"scale"`     // Low-res scale
	Samples   int     `json:"samples"`   // Samples per pixel, 0 = scene default
	Depth     int     `json:"depth"`     // Max bounces, 0 = scene default
	Scanlines int     `json:"scanlines"` // Rows per progressive frame
	Frames    int     `json:"frames"`    // Frames to render, 0 = one full sweep
	LowRes    bool    `json:"lowres"`    // Render in low-res mode
	Seed      int     `json:"seed"`      // Base seed for pixel streams
}

// parseRenderRequest parses and validates query parameters shared by every render endpoint
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default"}
	if sceneID := values.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, 16, 2000); err != nil {
		return nil, err
	}
	if req.Scale, err = parseFloatParam(values, "scale", 0.25, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, 1024); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 0, 1, 64); err != nil {
		return nil, err
	}
	if req.Scanlines, err = parseIntParam(values, "scanlines", 32, 1, 2000); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(values, "frames", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseIntParam(values, "seed", 0, 0, 1<<31-1); err != nil {
		return nil, err
	}
	if value := values.Get("lowres"); value != "" {
		if req.LowRes, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid lowres: %s", value)
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 64 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// frameCount returns how many RenderFrame calls the request asks for
func (req *RenderRequest) frameCount() int {
	if req.Frames > 0 {
		return req.Frames
	}
	if req.LowRes {
		return 1
	}
	return (req.Height + req.Scanlines - 1) / req.Scanlines
}

// RenderingPipeline contains the configured scene, camera and renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Camera   *geometry.Camera
	Renderer *renderer.Renderer
}

// setupRenderingPipeline creates the scene and a renderer sized for the request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := scene.New(req.Scene)
	if err != nil {
		return nil, err
	}

	config := sceneObj.ApplyTo(renderer.DefaultConfig())
	config.Width = req.Width
	config.Height = req.Height
	config.LowResScale = req.Scale
	config.ScanlinesPerFrame = req.Scanlines
	config.NumWorkers = s.numWorkers
	config.Seed = uint64(req.Seed)
	if req.Samples > 0 {
		config.SamplesPerPixel = req.Samples
	}
	if req.Depth > 0 {
		config.MaxDepth = req.Depth
	}

	r, err := renderer.NewRenderer(config, logger)
	if err != nil {
		return nil, err
	}
	r.SetLowRes(req.LowRes)

	return &RenderingPipeline{
		Scene:    sceneObj,
		Camera:   sceneObj.NewCamera(req.Width, req.Height),
		Renderer: r,
	}, nil
}
