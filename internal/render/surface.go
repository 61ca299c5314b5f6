// Package render rasterizes action marks and cursor indicators onto raw
// BGRA pixel buffers. It is shared by the synthetic canvas (straight-alpha
// compositing onto an opaque background) and the overlay's layered surface
// (premultiplied pixels written directly).
package render

// Color is an RGBA color; A < 255 composites, A == 255 overwrites.
type Color struct {
	R, G, B, A uint8
}

// Surface is an owned BGRA, top-down pixel buffer of exactly W*H*4 bytes.
// When Premultiplied is set, draws store alpha-prescaled channels and do
// not blend with what is underneath; that is the layered-window layout.
type Surface struct {
	Pix           []byte
	W, H          int
	Premultiplied bool
}

// NewSurface allocates a zeroed surface.
func NewSurface(w, h int, premultiplied bool) *Surface {
	return &Surface{
		Pix:           make([]byte, w*h*4),
		W:             w,
		H:             h,
		Premultiplied: premultiplied,
	}
}

// put writes one pixel, honoring the surface's compositing mode.
func (s *Surface) put(x, y int, c Color) {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return
	}
	i := (y*s.W + x) * 4

	if s.Premultiplied {
		a := uint32(c.A)
		s.Pix[i] = uint8(uint32(c.B) * a / 255)
		s.Pix[i+1] = uint8(uint32(c.G) * a / 255)
		s.Pix[i+2] = uint8(uint32(c.R) * a / 255)
		s.Pix[i+3] = c.A
		return
	}

	if c.A == 255 {
		s.Pix[i] = c.B
		s.Pix[i+1] = c.G
		s.Pix[i+2] = c.R
		s.Pix[i+3] = 255
		return
	}

	a := uint32(c.A)
	inv := 255 - a
	s.Pix[i] = uint8((uint32(c.B)*a + uint32(s.Pix[i])*inv) / 255)
	s.Pix[i+1] = uint8((uint32(c.G)*a + uint32(s.Pix[i+1])*inv) / 255)
	s.Pix[i+2] = uint8((uint32(c.R)*a + uint32(s.Pix[i+2])*inv) / 255)
	na := a + uint32(s.Pix[i+3])*inv/255
	if na > 255 {
		na = 255
	}
	s.Pix[i+3] = uint8(na)
}

// FillCircle draws a filled circle centered at (cx, cy).
func (s *Surface) FillCircle(cx, cy, radius int, c Color) {
	r2 := radius * radius
	for oy := -radius; oy <= radius; oy++ {
		for ox := -radius; ox <= radius; ox++ {
			if ox*ox+oy*oy > r2 {
				continue
			}
			s.put(cx+ox, cy+oy, c)
		}
	}
}

// ThickLine draws a line from (x1,y1) to (x2,y2) with the given thickness,
// using an integer Bresenham stepper and a square stamp at each step.
func (s *Surface) ThickLine(x1, y1, x2, y2, thickness int, c Color) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	err := dx - dy
	half := thickness >> 1
	x, y := x1, y1
	for {
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				s.put(x+ox, y+oy, c)
			}
		}
		if x == x2 && y == y2 {
			return
		}
		e2 := err << 1
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Norm maps a normalized [0,1000] coordinate onto a pixel extent, clamping
// before scaling.
func Norm(v, extent int) int {
	if v < 0 {
		v = 0
	}
	if v > 1000 {
		v = 1000
	}
	return int(float64(v) / 1000.0 * float64(extent))
}
