// Package window defines the presentation facade the app loop draws through,
// and the loop itself. Concrete presenters live in subpackages.
package window

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a pixel buffer is requested with a non-positive size
var ErrInvalidSize = errors.New("invalid pixel buffer size")

// BytesPerPixel is the size of one RGBA8 pixel in a frame buffer
const BytesPerPixel = 4

// Frame is handed to the per-frame callback. Pixels may be replaced by the
// presenter on resize; callers must not keep it across frames.
type Frame struct {
	Pixels    []byte  // RGBA, Width*Height*4 bytes
	Width     int     // Buffer width in pixels
	Height    int     // Buffer height in pixels
	Input     Input   // Current and previous input state
	DeltaTime float64 // Seconds since the previous frame
	Resized   bool    // Pixels was (re)allocated since the previous frame
}

// Presenter owns the output surface. Run acquires the pixel buffer, then calls
// fn once per frame and presents Frame.Pixels after it returns. When fn returns
// false the loop ends and the presenter shuts down.
type Presenter interface {
	Run(fn func(*Frame) bool) error
}

// NewPixelBuffer allocates a zeroed RGBA buffer of width x height pixels
func NewPixelBuffer(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return make([]byte, width*height*BytesPerPixel), nil
}
