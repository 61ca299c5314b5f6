package render

import (
	"github.com/xkilldash9x/marionette/api/schemas"
)

// Style holds the palette and geometry for one rendering target. The
// synthetic canvas and the desktop overlay carry different alphas because
// the overlay composites against live desktop content.
type Style struct {
	Click       Color
	DoubleClick Color
	RightClick  Color
	Drag        Color

	MarkRadius    int
	DragThickness int

	PrevCursor     Color
	PrevRadius     int
	CurOuter       Color
	CurOuterRadius int
	CurInner       Color
	CurInnerRadius int
}

// CanvasStyle is the palette for the opaque synthetic canvas.
var CanvasStyle = Style{
	Click:       Color{R: 255, G: 255, B: 255, A: 255},
	DoubleClick: Color{G: 220, A: 255},
	RightClick:  Color{R: 80, G: 140, B: 255, A: 255},
	Drag:        Color{R: 255, G: 220, A: 220},

	MarkRadius:    10,
	DragThickness: 4,

	PrevCursor:     Color{R: 255, A: 50},
	PrevRadius:     12,
	CurOuter:       Color{R: 255, G: 255, B: 255, A: 180},
	CurOuterRadius: 14,
	CurInner:       Color{R: 255, A: 200},
	CurInnerRadius: 10,
}

// OverlayStyle is the palette for the transparent layered overlay. The
// surface is premultiplied, so these alphas double as per-pixel opacity.
var OverlayStyle = Style{
	Click:       Color{R: 255, G: 255, B: 255, A: 220},
	DoubleClick: Color{G: 220, A: 220},
	RightClick:  Color{R: 80, G: 140, B: 255, A: 220},
	Drag:        Color{R: 255, G: 220, A: 200},

	MarkRadius:    10,
	DragThickness: 4,

	PrevCursor:     Color{R: 255, A: 70},
	PrevRadius:     12,
	CurOuter:       Color{R: 255, G: 255, B: 255, A: 240},
	CurOuterRadius: 14,
	CurInner:       Color{R: 255, A: 220},
	CurInnerRadius: 10,
}

// DrawMarks paints the accumulated marks oldest first, then the faded
// previous cursor, then the current cursor on top of everything.
func DrawMarks(s *Surface, marks []schemas.Mark, cursor schemas.CursorState, st Style) {
	for _, m := range marks {
		drawMark(s, m, st)
	}
	if cursor.HasPrev() {
		px := Norm(*cursor.PrevX, s.W)
		py := Norm(*cursor.PrevY, s.H)
		s.FillCircle(px, py, st.PrevRadius, st.PrevCursor)
	}
	if cursor.Valid() {
		cx := Norm(*cursor.LastX, s.W)
		cy := Norm(*cursor.LastY, s.H)
		s.FillCircle(cx, cy, st.CurOuterRadius, st.CurOuter)
		s.FillCircle(cx, cy, st.CurInnerRadius, st.CurInner)
	}
}

func drawMark(s *Surface, m schemas.Mark, st Style) {
	switch m.Type {
	case schemas.MarkClick:
		s.FillCircle(Norm(m.X, s.W), Norm(m.Y, s.H), st.MarkRadius, st.Click)
	case schemas.MarkDoubleClick:
		s.FillCircle(Norm(m.X, s.W), Norm(m.Y, s.H), st.MarkRadius, st.DoubleClick)
	case schemas.MarkRightClick:
		s.FillCircle(Norm(m.X, s.W), Norm(m.Y, s.H), st.MarkRadius, st.RightClick)
	case schemas.MarkDrag:
		s.ThickLine(Norm(m.X1, s.W), Norm(m.Y1, s.H),
			Norm(m.X2, s.W), Norm(m.Y2, s.H), st.DragThickness, st.Drag)
	}
}
