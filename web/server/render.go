package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate is sent after every rendered frame
type ProgressUpdate struct {
	Frame       int    `json:"frame"`       // 1-based frame number
	TotalFrames int    `json:"totalFrames"` // Frames planned for this stream
	Cursor      int    `json:"cursor"`      // Next progressive row
	TotalRows   int    `json:"totalRows"`   // Image height
	ImageData   string `json:"imageData"`   // Base64 encoded PNG of the whole buffer
	Stats       Stats  `json:"stats"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents the render statistics of one frame
type Stats struct {
	Mode       string `json:"mode"`
	Pixels     int    `json:"pixels"`
	Samples    int    `json:"samples"`
	Batches    int    `json:"batches"`
	FirstRow   int    `json:"firstRow"`
	LastRow    int    `json:"lastRow"`
	DurationMs int64  `json:"durationMs"`
}

// handleRender streams progressive frames as Server-Sent Events until the
// requested frames are done or the client disconnects
func (s *Server) handleRender(c echo.Context) error {
	// Validation errors are plain HTTP errors; the stream has not started yet
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		return pipelineError(err)
	}

	w := c.Response()
	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()

	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()

	s.renderFrames(ctx, sseEventChan, pipeline, req)

	// The renderer is the only writer of consoleChan; once it is closed the
	// console stream drains and the event channel has a single sender left
	pipeline.Renderer.Close()
	close(consoleChan)
	<-consoleDone

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
	close(sseEventChan)
	<-writerDone
	return nil
}

// renderFrames runs the frame loop and sends a progress event per frame
func (s *Server) renderFrames(ctx context.Context, sseEventChan chan SSEEvent, pipeline *RenderingPipeline, req *RenderRequest) {
	startTime := time.Now()
	pixels := make([]byte, req.Width*req.Height*4)
	totalFrames := req.frameCount()

	for i := 0; i < totalFrames; i++ {
		// Check if client is still connected
		if ctx.Err() != nil {
			return
		}

		stats, err := pipeline.Renderer.RenderFrame(pixels, pipeline.Camera, pipeline.Scene.World)
		if err != nil {
			s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
			return
		}

		imageData, err := imageToBase64PNG(pixels, req.Width, req.Height)
		if err != nil {
			s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
			return
		}

		update := ProgressUpdate{
			Frame:       i + 1,
			TotalFrames: totalFrames,
			Cursor:      pipeline.Renderer.ScanlineCursor(),
			TotalRows:   req.Height,
			ImageData:   imageData,
			Stats:       newStats(stats),
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}

		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling progress update: %v", err)
			return
		}

		select {
		case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
		case <-ctx.Done():
			return
		}
	}
}

func newStats(stats renderer.FrameStats) Stats {
	return Stats{
		Mode:       stats.Mode.String(),
		Pixels:     stats.Pixels,
		Samples:    stats.Samples,
		Batches:    stats.Batches,
		FirstRow:   stats.FirstRow,
		LastRow:    stats.LastRow,
		DurationMs: stats.Duration.Milliseconds(),
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
			// Client disconnected; keep draining until the renderer is done
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
