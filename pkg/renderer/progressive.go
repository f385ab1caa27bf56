package renderer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

var (
	// ErrInvalidConfig is wrapped by every configuration error returned from NewRenderer
	ErrInvalidConfig = errors.New("invalid renderer config")
	// ErrBufferSize is returned when the output buffer does not match the configured size
	ErrBufferSize = errors.New("pixel buffer size mismatch")
)

// Config contains the renderer's resolution and sampling settings
type Config struct {
	Width             int         // Output width in pixels
	Height            int         // Output height in pixels
	LowResScale       float64     // Scale of the scratch frame used while the camera moves
	SamplesPerPixel   int         // Camera rays per pixel
	MaxDepth          int         // Maximum bounces per path
	ScanlinesPerFrame int         // Rows shaded per frame in progressive mode
	NumWorkers        int         // Number of workers (0 = use CPU count)
	Seed              uint64      // Base seed for per-pixel random streams
	Jitter            bool        // Jitter samples inside the pixel
	ShadingMode       ShadingMode // How hits are colored
	SkyTop            core.Vec3   // Sky color straight up
	SkyBottom         core.Vec3   // Sky color at and below the horizon
	RaySurfaceOffset  float64     // Minimum hit distance, avoids shadow acne
}

// DefaultConfig returns sensible default values for an 800x600 window
func DefaultConfig() Config {
	return Config{
		Width:             800,
		Height:            600,
		LowResScale:       0.25,
		SamplesPerPixel:   4,
		MaxDepth:          8,
		ScanlinesPerFrame: 8,
		NumWorkers:        0, // Auto-detect CPU count
		Seed:              0,
		Jitter:            true,
		ShadingMode:       ShadePathTraced,
		SkyTop:            core.NewVec3(0.5, 0.7, 1.0),
		SkyBottom:         core.NewVec3(1.0, 1.0, 1.0),
		RaySurfaceOffset:  0.001,
	}
}

// ScaledSize returns the scratch resolution floor(w*scale) x floor(h*scale)
func (c Config) ScaledSize() (int, int) {
	return int(math.Floor(float64(c.Width) * c.LowResScale)),
		int(math.Floor(float64(c.Height) * c.LowResScale))
}

// Validate checks the config, wrapping ErrInvalidConfig with the first problem found
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if sw, sh := c.ScaledSize(); sw <= 0 || sh <= 0 {
		return fmt.Errorf("%w: low-res scale %g gives an empty %dx%d scratch frame", ErrInvalidConfig, c.LowResScale, sw, sh)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.ScanlinesPerFrame < 1 {
		return fmt.Errorf("%w: scanlines per frame must be at least 1, got %d", ErrInvalidConfig, c.ScanlinesPerFrame)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	if math.IsNaN(c.RaySurfaceOffset) || c.RaySurfaceOffset < 0 {
		return fmt.Errorf("%w: ray surface offset must not be negative, got %g", ErrInvalidConfig, c.RaySurfaceOffset)
	}
	return nil
}

// Renderer turns a camera and a world into pixels, one frame per call. While the
// camera moves it shades a scaled-down scratch frame and stretches it over the
// output; while still it refines the output a band of scanlines at a time.
//
// RenderFrame and SetLowRes must be called from a single goroutine.
type Renderer struct {
	config         Config
	width, height  int
	scratchWidth   int
	scratchHeight  int
	scratch        []byte      // Low-res frame, RGBA
	lowRes         bool        // Current mode
	scanlineCursor int         // Next row of the progressive band
	frame          uint64      // Frames rendered so far
	sweeps         int         // Completed progressive passes over the image
	sums           []core.Vec3 // Linear color sum per output pixel
	writes         []uint32    // Estimates accumulated per output pixel
	accumulated    bool        // sums hold estimates since the last reset
	workerPool     *WorkerPool // Worker pool for parallel processing
	logger         core.Logger // Logger for rendering output
}

// NewRenderer validates the config and starts the worker pool
func NewRenderer(config Config, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	if config.NumWorkers == 0 {
		config.NumWorkers = DefaultWorkerCount()
	}
	workerPool, err := NewWorkerPool(config.NumWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}

	scratchWidth, scratchHeight := config.ScaledSize()
	logger.Printf("Renderer: %dx%d output, %dx%d low-res, %d workers, %d spp, depth %d\n",
		config.Width, config.Height, scratchWidth, scratchHeight,
		workerPool.GetNumWorkers(), config.SamplesPerPixel, config.MaxDepth)

	return &Renderer{
		config:        config,
		width:         config.Width,
		height:        config.Height,
		scratchWidth:  scratchWidth,
		scratchHeight: scratchHeight,
		scratch:       make([]byte, scratchWidth*scratchHeight*bytesPerPixel),
		sums:          make([]core.Vec3, config.Width*config.Height),
		writes:        make([]uint32, config.Width*config.Height),
		workerPool:    workerPool,
		logger:        logger,
	}, nil
}

// SetLowRes switches between low-res preview and progressive refinement
func (r *Renderer) SetLowRes(lowRes bool) {
	r.lowRes = lowRes
}

// LowRes reports whether the next frame is rendered in low-res mode
func (r *Renderer) LowRes() bool {
	return r.lowRes
}

// Config returns the resolved config; NumWorkers is never 0
func (r *Renderer) Config() Config {
	return r.config
}

// NumWorkers returns the size of the worker pool
func (r *Renderer) NumWorkers() int {
	return r.workerPool.GetNumWorkers()
}

// ScanlineCursor returns the first row of the next progressive band
func (r *Renderer) ScanlineCursor() int {
	return r.scanlineCursor
}

// ScratchSize returns the low-res frame resolution
func (r *Renderer) ScratchSize() (int, int) {
	return r.scratchWidth, r.scratchHeight
}

// Sweeps returns how many times progressive mode has covered the whole image
func (r *Renderer) Sweeps() int {
	return r.sweeps
}

// PixelWrites returns how many estimates are averaged into output pixel (x, y)
func (r *Renderer) PixelWrites(x, y int) int {
	return int(r.writes[y*r.width+x])
}

// ResetAccumulation discards the progressive history and restarts the band at row 0.
// Low-res frames call it since a moving camera invalidates every sum.
func (r *Renderer) ResetAccumulation() {
	if !r.accumulated {
		return
	}
	clear(r.sums)
	clear(r.writes)
	r.scanlineCursor = 0
	r.accumulated = false
}

// Close stops the worker pool after in-flight jobs finish
func (r *Renderer) Close() {
	r.workerPool.Stop()
}

// RenderFrame renders one frame into pixels, an RGBA buffer of Width*Height*4 bytes.
// It returns once every job of the frame has completed.
func (r *Renderer) RenderFrame(pixels []byte, camera *geometry.Camera, world geometry.Hittable) (FrameStats, error) {
	if len(pixels) != r.width*r.height*bytesPerPixel {
		return FrameStats{}, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrBufferSize, len(pixels), r.width*r.height*bytesPerPixel, r.width, r.height)
	}

	start := time.Now()
	stats := FrameStats{Frame: r.frame}
	raytracer := NewRaytracer(world, r.config)

	var err error
	if r.lowRes {
		err = r.renderLowRes(pixels, camera, raytracer, &stats)
	} else {
		err = r.renderProgressive(pixels, camera, raytracer, &stats)
	}
	r.frame++

	stats.Samples = stats.Pixels * r.config.SamplesPerPixel
	stats.Duration = time.Since(start)
	return stats, err
}

// renderLowRes shades the scratch frame, then stretches it over the output
func (r *Renderer) renderLowRes(pixels []byte, camera *geometry.Camera, raytracer *Raytracer, stats *FrameStats) error {
	stats.Mode = ModeLowRes
	stats.FirstRow, stats.LastRow = 0, r.height
	r.ResetAccumulation()

	viewport := camera.Viewport(r.scratchWidth, r.scratchHeight)
	batches := PartitionRange(0, r.scratchWidth*r.scratchHeight, r.NumWorkers())
	frame := r.frame
	scratch := r.scratch

	if err := r.runBatches(batches, func(batch Batch) {
		raytracer.RenderBatch(batch, viewport, scratch, frame)
	}); err != nil {
		return err
	}
	stats.Pixels = r.scratchWidth * r.scratchHeight
	stats.Batches = len(batches)

	upsampled, err := r.upsample(pixels)
	stats.Batches += upsampled
	return err
}

// upsample stretches the scratch frame over pixels with nearest-neighbour sampling.
// It returns the number of jobs submitted.
func (r *Renderer) upsample(pixels []byte) (int, error) {
	batches := PartitionRange(0, r.width*r.height, r.NumWorkers())
	width, height := r.width, r.height
	sw, sh := r.scratchWidth, r.scratchHeight
	scratch := r.scratch

	err := r.runBatches(batches, func(batch Batch) {
		for i := batch.Start; i < batch.End(); i++ {
			y := i / width
			x := i - y*width
			sx := min(x*sw/width, sw-1)
			sy := min(y*sh/height, sh-1)

			src := (sy*sw + sx) * bytesPerPixel
			dst := i * bytesPerPixel
			copy(pixels[dst:dst+bytesPerPixel], scratch[src:src+bytesPerPixel])
		}
	})
	return len(batches), err
}

// renderProgressive adds one estimate to every pixel of the next band of full
// resolution scanlines and writes the running average
func (r *Renderer) renderProgressive(pixels []byte, camera *geometry.Camera, raytracer *Raytracer, stats *FrameStats) error {
	stats.Mode = ModeProgressive

	firstRow := r.scanlineCursor
	lastRow := min(firstRow+r.config.ScanlinesPerFrame, r.height)
	stats.FirstRow, stats.LastRow = firstRow, lastRow

	viewport := camera.Viewport(r.width, r.height)
	batches := PartitionRange(firstRow*r.width, (lastRow-firstRow)*r.width, r.NumWorkers())
	frame := r.frame
	sums, writes := r.sums, r.writes

	r.accumulated = true
	err := r.runBatches(batches, func(batch Batch) {
		raytracer.AccumulateBatch(batch, viewport, sums, writes, pixels, frame)
	})
	stats.Batches = len(batches)
	if err != nil {
		return err
	}
	stats.Pixels = (lastRow - firstRow) * r.width

	// The band never straddles the bottom edge; the next one starts over at row 0
	r.scanlineCursor = lastRow
	if r.scanlineCursor >= r.height {
		r.scanlineCursor = 0
		r.sweeps++
		r.logger.Printf("Progressive sweep %d complete (%d frames)\n", r.sweeps, r.frame+1)
	}
	return nil
}

// runBatches submits one job per batch and waits for all of them. Batches that
// were accepted before a submit error still complete before it returns.
func (r *Renderer) runBatches(batches []Batch, render func(Batch)) error {
	var submitErr error
	for _, batch := range batches {
		b := batch
		if err := r.workerPool.Submit(func(int) { render(b) }); err != nil {
			submitErr = fmt.Errorf("failed to submit batch %d: %w", b.ID, err)
			break
		}
	}
	r.workerPool.WaitUntilIdle()
	return submitErr
}
