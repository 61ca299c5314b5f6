package imaging

import (
	"image"

	"github.com/nfnt/resize"
)

// BGRAToRGBA converts a BGRA capture buffer into the RGBA layout the PNG
// encoder wants. GDI captures carry garbage in the alpha channel, so alpha
// is forced opaque.
func BGRAToRGBA(bgra []byte) []byte {
	out := make([]byte, len(bgra))
	for i := 0; i+3 < len(bgra); i += 4 {
		out[i] = bgra[i+2]
		out[i+1] = bgra[i+1]
		out[i+2] = bgra[i]
		out[i+3] = 255
	}
	return out
}

// Resize scales a tightly packed RGBA buffer to the target dimensions with
// Lanczos resampling. ok is false when the input does not describe a valid
// image or no scaling is needed; callers fall back to the original buffer.
func Resize(rgba []byte, w, h, targetW, targetH int) (out []byte, ok bool) {
	if w <= 0 || h <= 0 || targetW <= 0 || targetH <= 0 || len(rgba) != w*h*4 {
		return nil, false
	}
	if w == targetW && h == targetH {
		return nil, false
	}

	src := &image.RGBA{
		Pix:    rgba,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	scaled := resize.Resize(uint(targetW), uint(targetH), src, resize.Lanczos3)
	dst, isRGBA := scaled.(*image.RGBA)
	if !isRGBA {
		// resize returns *image.RGBA for RGBA input; anything else means
		// the fallback path should keep the original frame.
		return nil, false
	}
	if dst.Stride != targetW*4 || len(dst.Pix) != targetW*targetH*4 {
		return nil, false
	}
	return dst.Pix, true
}
