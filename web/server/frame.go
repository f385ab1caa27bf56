package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// handleFrame renders the requested frames and returns the result as a PNG
func (s *Server) handleFrame(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	pipeline, err := s.setupRenderingPipeline(req, core.NopLogger{})
	if err != nil {
		return pipelineError(err)
	}
	defer pipeline.Renderer.Close()

	pixels := make([]byte, req.Width*req.Height*4)
	ctx := c.Request().Context()
	for i := 0; i < req.frameCount(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := pipeline.Renderer.RenderFrame(pixels, pipeline.Camera, pipeline.Scene.World); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Render error: "+err.Error())
		}
	}

	data, err := encodePNG(pixels, req.Width, req.Height)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to encode image: "+err.Error())
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// pipelineError maps setup failures to HTTP errors
func pipelineError(err error) error {
	if errors.Is(err, scene.ErrUnknownScene) || errors.Is(err, renderer.ErrInvalidConfig) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// encodePNG encodes an RGBA pixel buffer as PNG
func encodePNG(pixels []byte, width, height int) ([]byte, error) {
	img, err := renderer.ToRGBA(pixels, width, height)
	if err != nil {
		return nil, err
	}
	return imageToPNG(img)
}

func imageToPNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageToBase64PNG converts a pixel buffer to base64-encoded PNG
func imageToBase64PNG(pixels []byte, width, height int) (string, error) {
	data, err := encodePNG(pixels, width, height)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
