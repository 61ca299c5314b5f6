package schemas

// MarkType identifies the kind of a rendered action mark.
type MarkType string

const (
	MarkClick       MarkType = "click"
	MarkDoubleClick MarkType = "double_click"
	MarkRightClick  MarkType = "right_click"
	MarkDrag        MarkType = "drag"
)

// Mark is a renderable, validated record of an executed pointer action.
// Point marks use X/Y; drag marks use X1/Y1 -> X2/Y2. All coordinates are
// normalized integers in [0,1000]. Marks are immutable once created and
// their list order is paint order.
type Mark struct {
	Type MarkType `json:"type"`
	X    int      `json:"x"`
	Y    int      `json:"y"`
	X1   int      `json:"x1"`
	Y1   int      `json:"y1"`
	X2   int      `json:"x2"`
	Y2   int      `json:"y2"`
}

// CursorState is the persisted 2-slot cursor position history. The slots
// are nil until a pointer-moving action has happened. Generation increments
// on every persisted write and is what the overlay uses for change
// detection, instead of trusting filesystem timestamp granularity.
type CursorState struct {
	LastX      *int   `json:"last_x"`
	LastY      *int   `json:"last_y"`
	PrevX      *int   `json:"prev_x"`
	PrevY      *int   `json:"prev_y"`
	Generation uint64 `json:"generation"`
}

// Valid reports whether both current-position slots are populated.
func (c CursorState) Valid() bool {
	return c.LastX != nil && c.LastY != nil
}

// HasPrev reports whether both previous-position slots are populated.
func (c CursorState) HasPrev() bool {
	return c.PrevX != nil && c.PrevY != nil
}
