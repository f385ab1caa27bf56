package renderer

import (
	"fmt"
	"image"
)

// ToRGBA copies an RGBA pixel buffer into an image.RGBA
func ToRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*bytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrBufferSize, len(pixels), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}
