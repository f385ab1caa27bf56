package window

import (
	"fmt"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
)

// Loop drives one interactive session: input moves the camera, the renderer
// draws the world into the presenter's buffer. The renderer is rebuilt whenever
// the buffer size changes, since its scratch frame is sized at construction.
type Loop struct {
	camera     *geometry.Camera
	world      geometry.Hittable
	controller *CameraController
	config     renderer.Config
	renderer   *renderer.Renderer
	logger     core.Logger
	frames     int
	err        error

	// OnFrame, when set, receives the stats of every rendered frame
	OnFrame func(renderer.FrameStats)
}

// NewLoop creates a loop. config supplies everything but the output size,
// which follows the presenter.
func NewLoop(camera *geometry.Camera, world geometry.Hittable, config renderer.Config, controller *CameraController, logger core.Logger) *Loop {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Loop{
		camera:     camera,
		world:      world,
		controller: controller,
		config:     config,
		logger:     logger,
	}
}

// Run presents frames until the presenter stops or a frame fails, then
// releases the renderer. A render error takes precedence over a presenter error.
func (l *Loop) Run(p Presenter) error {
	perr := p.Run(l.Step)
	l.Close()

	if l.err != nil {
		return l.err
	}
	return perr
}

// Step handles one frame and reports whether the loop should continue
func (l *Loop) Step(frame *Frame) bool {
	if frame.Input.KeyDown(KeyEscape) {
		return false
	}

	if l.renderer == nil || frame.Resized {
		if err := l.resize(frame.Width, frame.Height); err != nil {
			l.fail(err)
			return false
		}
	}

	moved := l.controller.Update(l.camera, frame.Input, frame.DeltaTime)
	l.renderer.SetLowRes(moved)

	stats, err := l.renderer.RenderFrame(frame.Pixels, l.camera, l.world)
	if err != nil {
		l.fail(fmt.Errorf("frame %d: %w", l.frames, err))
		return false
	}

	l.frames++
	if l.OnFrame != nil {
		l.OnFrame(stats)
	}
	return true
}

// resize matches the camera and a fresh renderer to a new buffer size
func (l *Loop) resize(width, height int) error {
	l.camera.SetAspectRatio(float64(width) / float64(height))

	if l.renderer != nil {
		l.renderer.Close()
		l.renderer = nil
	}

	config := l.config
	config.Width = width
	config.Height = height
	r, err := renderer.NewRenderer(config, l.logger)
	if err != nil {
		return fmt.Errorf("failed to create renderer for %dx%d: %w", width, height, err)
	}
	l.renderer = r
	return nil
}

func (l *Loop) fail(err error) {
	l.logger.Printf("Render loop stopped: %v\n", err)
	l.err = err
}

// Frames returns the number of frames rendered so far
func (l *Loop) Frames() int {
	return l.frames
}

// Renderer returns the current renderer, nil before the first frame or after Close
func (l *Loop) Renderer() *renderer.Renderer {
	return l.renderer
}

// Close stops the renderer's workers
func (l *Loop) Close() {
	if l.renderer != nil {
		l.renderer.Close()
		l.renderer = nil
	}
}
