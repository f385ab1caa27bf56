package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(0, 2)
	rec := get(t, s, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	s := NewServer(0, 2)
	rec := get(t, s, "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Scenes []scene.SceneInfo `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(body.Scenes))
	}
}

func TestHandleFrame(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"progressive sweep", "/api/frame?width=32&height=24&samples=1&depth=2&scanlines=8"},
		{"single band", "/api/frame?width=32&height=24&samples=1&depth=2&frames=1"},
		{"low-res", "/api/frame?width=32&height=24&samples=1&depth=2&lowres=true&scale=0.25"},
		{"sphere grid", "/api/frame?scene=sphere-grid&width=32&height=24&samples=1&depth=2&scanlines=24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(0, 2)
			rec := get(t, s, tt.target)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %q", ct)
			}

			img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
			if err != nil {
				t.Fatalf("Invalid PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
				t.Errorf("Expected 32x24 image, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestHandleFrame_BadRequest(t *testing.T) {
	targets := []string{
		"/api/frame?width=abc",
		"/api/frame?width=5",
		"/api/frame?height=5000",
		"/api/frame?scale=2",
		"/api/frame?samples=0",
		"/api/frame?lowres=maybe",
		"/api/frame?scene=no-such-scene",
		"/api/frame?width=16&height=16&scale=0.01", // empty scratch frame
		"/api/render?depth=100",
		"/api/inspect?x=10",
	}

	s := NewServer(0, 2)
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := get(t, s, target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRender_StreamsEvents(t *testing.T) {
	s := NewServer(0, 2)
	rec := get(t, s, "/api/render?width=32&height=24&samples=1&depth=2&scanlines=12")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: progress\n"); n != 2 {
		t.Errorf("Expected 2 progress events for 24 rows at 12 per frame, got %d", n)
	}
	if !strings.Contains(body, "event: console\n") {
		t.Error("Expected renderer logs on the console stream")
	}
	if !strings.HasSuffix(body, "event: complete\ndata: Rendering completed\n\n") {
		t.Error("Expected the stream to end with a complete event")
	}

	// The last progress event covers the whole image and wraps the cursor
	var last ProgressUpdate
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: {\"frame\"") {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &last); err != nil {
				t.Fatalf("Invalid progress JSON: %v", err)
			}
		}
	}
	if last.Frame != 2 || last.TotalFrames != 2 || last.Cursor != 0 || last.TotalRows != 24 {
		t.Errorf("Unexpected final progress %+v", last)
	}
	if last.Stats.Mode != "progressive" || last.Stats.FirstRow != 12 || last.Stats.LastRow != 24 {
		t.Errorf("Unexpected final stats %+v", last.Stats)
	}
	if last.ImageData == "" {
		t.Error("Expected image data")
	}
}

func TestHandleInspect(t *testing.T) {
	s := NewServer(0, 2)

	// The default camera looks straight at the red lambertian sphere
	rec := get(t, s, "/api/inspect?width=400&height=300&x=200&y=150")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !resp.Hit || resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
		t.Errorf("Expected a lambertian sphere hit, got %+v", resp)
	}
	if resp.Distance < 3.9 || resp.Distance > 4.1 || !resp.FrontFace {
		t.Errorf("Expected a front face hit about 4 units away, got %+v", resp)
	}

	// The top-left corner looks into the sky
	rec = get(t, s, "/api/inspect?width=400&height=300&x=0&y=0")
	resp = InspectResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.Hit {
		t.Errorf("Expected a miss, got %+v", resp)
	}

	rec = get(t, s, "/api/inspect?width=400&height=300&x=400&y=0")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an out of range pixel, got %d", rec.Code)
	}
}
