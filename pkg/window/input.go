package window

// Key identifies a keyboard key the app reacts to
type Key uint8

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyEscape
	KeyF11
	keyCount
)

// Keys lists every key a presenter should poll
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyQ:
		return "Q"
	case KeyE:
		return "E"
	case KeyEscape:
		return "Escape"
	case KeyF11:
		return "F11"
	default:
		return "Unknown"
	}
}

// KeySet is a set of keys held down
type KeySet uint32

// With returns the set with k added
func (s KeySet) With(k Key) KeySet { return s | 1<<k }

// Has reports whether k is in the set
func (s KeySet) Has(k Key) bool { return s&(1<<k) != 0 }

// MouseButton identifies a mouse button
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// ButtonSet is a set of mouse buttons held down
type ButtonSet uint8

// With returns the set with b added
func (s ButtonSet) With(b MouseButton) ButtonSet { return s | 1<<b }

// Has reports whether b is in the set
func (s ButtonSet) Has(b MouseButton) bool { return s&(1<<b) != 0 }

// Input is the keyboard and mouse state of the current and the previous frame
type Input struct {
	Keys        KeySet
	PrevKeys    KeySet
	Buttons     ButtonSet
	PrevButtons ButtonSet
	MouseX      float64
	MouseY      float64
	PrevMouseX  float64
	PrevMouseY  float64

	polled bool // Set after the first Poll
}

// KeyDown reports whether k is held this frame
func (in Input) KeyDown(k Key) bool {
	return in.Keys.Has(k)
}

// KeyPressed reports whether k went down this frame
func (in Input) KeyPressed(k Key) bool {
	return in.Keys.Has(k) && !in.PrevKeys.Has(k)
}

// ButtonDown reports whether b is held this frame
func (in Input) ButtonDown(b MouseButton) bool {
	return in.Buttons.Has(b)
}

// MouseDelta returns the cursor movement since the previous frame
func (in Input) MouseDelta() (dx, dy float64) {
	return in.MouseX - in.PrevMouseX, in.MouseY - in.PrevMouseY
}

// Advance starts a new frame: the current state becomes the previous state
func (in *Input) Advance() {
	in.PrevKeys = in.Keys
	in.PrevButtons = in.Buttons
	in.PrevMouseX = in.MouseX
	in.PrevMouseY = in.MouseY
}

// Poll advances to a new frame and records its state. The first poll also
// seeds the previous cursor position, so a button held at startup does not
// register a jump from (0,0).
func (in *Input) Poll(keys KeySet, buttons ButtonSet, mouseX, mouseY float64) {
	in.Advance()
	in.Keys = keys
	in.Buttons = buttons
	in.MouseX, in.MouseY = mouseX, mouseY
	if !in.polled {
		in.PrevMouseX, in.PrevMouseY = mouseX, mouseY
		in.polled = true
	}
}
