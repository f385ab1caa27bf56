package renderer

import (
	"fmt"
	"time"
)

// RenderMode identifies which path RenderFrame took
type RenderMode int

const (
	// ModeProgressive shades a band of full resolution scanlines
	ModeProgressive RenderMode = iota
	// ModeLowRes shades a scaled-down frame and upsamples it
	ModeLowRes
)

func (m RenderMode) String() string {
	switch m {
	case ModeProgressive:
		return "progressive"
	case ModeLowRes:
		return "lowres"
	default:
		return "unknown"
	}
}

// FrameStats describes the work done by one RenderFrame call
type FrameStats struct {
	Mode     RenderMode
	Frame    uint64        // Frame counter, also used to seed pixel streams
	Pixels   int           // Pixels shaded (scratch pixels in low-res mode)
	Samples  int           // Camera rays traced
	Batches  int           // Jobs submitted, upsample jobs included
	FirstRow int           // First output row touched
	LastRow  int           // One past the last output row touched
	Duration time.Duration // Wall time including barriers
}

// SamplesPerSecond returns the camera ray throughput of the frame
func (s FrameStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Samples) / s.Duration.Seconds()
}

func (s FrameStats) String() string {
	return fmt.Sprintf("frame %d %s: rows %d-%d, %d pixels, %d samples, %d batches in %v",
		s.Frame, s.Mode, s.FirstRow, s.LastRow, s.Pixels, s.Samples, s.Batches, s.Duration)
}
