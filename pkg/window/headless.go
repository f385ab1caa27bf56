package window

// Step is the scripted state of one headless frame
type Step struct {
	Keys    KeySet
	Buttons ButtonSet
	MouseX  float64
	MouseY  float64
	Width   int // New buffer size; 0 keeps the current size
	Height  int
}

// HeadlessConfig configures a Headless presenter
type HeadlessConfig struct {
	Width     int
	Height    int
	Frames    int                  // Maximum number of frames to run
	DeltaTime float64              // Fixed frame time in seconds
	Script    func(frame int) Step // Optional per-frame input and resizes
}

// Headless presents into memory. It runs a fixed number of frames with
// scripted input, for tests and offscreen snapshots.
type Headless struct {
	config HeadlessConfig
	last   []byte
	width  int
	height int
	frames int
}

// NewHeadless creates a headless presenter
func NewHeadless(config HeadlessConfig) *Headless {
	return &Headless{config: config}
}

// Run implements Presenter
func (h *Headless) Run(fn func(*Frame) bool) error {
	pixels, err := NewPixelBuffer(h.config.Width, h.config.Height)
	if err != nil {
		return err
	}

	frame := &Frame{
		Pixels:    pixels,
		Width:     h.config.Width,
		Height:    h.config.Height,
		DeltaTime: h.config.DeltaTime,
		Resized:   true,
	}

	for i := 0; i < h.config.Frames; i++ {
		var step Step
		if h.config.Script != nil {
			step = h.config.Script(i)
		}

		frame.Input.Poll(step.Keys, step.Buttons, step.MouseX, step.MouseY)

		if step.Width > 0 && step.Height > 0 && (step.Width != frame.Width || step.Height != frame.Height) {
			pixels, err := NewPixelBuffer(step.Width, step.Height)
			if err != nil {
				return err
			}
			frame.Pixels = pixels
			frame.Width = step.Width
			frame.Height = step.Height
			frame.Resized = true
		}

		cont := fn(frame)
		h.present(frame)
		frame.Resized = false

		if !cont {
			break
		}
	}
	return nil
}

// present keeps a copy of the frame's pixels
func (h *Headless) present(frame *Frame) {
	if len(h.last) != len(frame.Pixels) {
		h.last = make([]byte, len(frame.Pixels))
	}
	copy(h.last, frame.Pixels)
	h.width = frame.Width
	h.height = frame.Height
	h.frames++
}

// LastFrame returns the last presented pixels and their size
func (h *Headless) LastFrame() ([]byte, int, int) {
	return h.last, h.width, h.height
}

// Presented returns the number of frames presented
func (h *Headless) Presented() int {
	return h.frames
}
