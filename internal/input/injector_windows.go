//go:build windows

package input

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventfMove      = 0x0001
	mouseEventfLeftDown  = 0x0002
	mouseEventfLeftUp    = 0x0004
	mouseEventfRightDown = 0x0008
	mouseEventfRightUp   = 0x0010
	mouseEventfAbsolute  = 0x8000

	keyEventfKeyUp   = 0x0002
	keyEventfUnicode = 0x0004

	smCxScreen = 0
	smCyScreen = 1

	// Pointer moves interpolate over moveSteps smoothstep-eased steps.
	moveSteps = 20
	stepDelay = 10 * time.Millisecond
	// Pause between reaching the target and pressing the button.
	clickDelay = 120 * time.Millisecond
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procSendInput       = user32.NewProc("SendInput")
	procGetSystemMetric = user32.NewProc("GetSystemMetrics")
	procGetCursorPos    = user32.NewProc("GetCursorPos")
)

// mouseInput mirrors the Win32 MOUSEINPUT layout. The keyboard variant
// reuses the same 64-bit-aligned envelope via the union field.
type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
	_           [8]byte // pad the union to MOUSEINPUT size
}

type winInput struct {
	inputType uint32
	_         uint32 // alignment
	mi        mouseInput
}

type point struct {
	x int32
	y int32
}

// windowsInjector drives the real desktop through SendInput.
type windowsInjector struct {
	screenW int
	screenH int
}

// NewPlatform returns the SendInput-backed injector.
func NewPlatform() (Injector, error) {
	w, _, _ := procGetSystemMetric.Call(smCxScreen)
	h, _, _ := procGetSystemMetric.Call(smCyScreen)
	if int(w) <= 0 || int(h) <= 0 {
		return nil, fmt.Errorf("input: GetSystemMetrics returned invalid screen size")
	}
	return &windowsInjector{screenW: int(w), screenH: int(h)}, nil
}

func (inj *windowsInjector) sendInputs(items []winInput) error {
	if len(items) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(items)),
		uintptr(unsafe.Pointer(&items[0])),
		unsafe.Sizeof(items[0]),
	)
	if int(n) != len(items) {
		return fmt.Errorf("input: SendInput injected %d of %d events: %w", n, len(items), err)
	}
	return nil
}

func (inj *windowsInjector) sendMouse(flags uint32, absX, absY int32) error {
	in := winInput{inputType: inputMouse}
	in.mi = mouseInput{dx: absX, dy: absY, dwFlags: flags}
	return inj.sendInputs([]winInput{in})
}

// toPixel maps a normalized [0,1000] coordinate onto the screen.
func (inj *windowsInjector) toPixel(v, extent int) int {
	if v < 0 {
		v = 0
	}
	if v > 1000 {
		v = 1000
	}
	return int(float64(v) / 1000.0 * float64(extent))
}

// toAbsolute converts pixel coordinates into the 0..65535 absolute space
// SendInput expects.
func (inj *windowsInjector) toAbsolute(px, py int) (int32, int32) {
	ax := int32(float64(px) / float64(max(1, inj.screenW-1)) * 65535)
	ay := int32(float64(py) / float64(max(1, inj.screenH-1)) * 65535)
	return clampAbs(ax), clampAbs(ay)
}

func clampAbs(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return v
}

// smoothMove eases the pointer from its current position to the target.
func (inj *windowsInjector) smoothMove(ctx context.Context, tx, ty int) error {
	var pt point
	procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	sx, sy := int(pt.x), int(pt.y)
	dx, dy := tx-sx, ty-sy

	for i := 0; i <= moveSteps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(i) / moveSteps
		t = t * t * (3.0 - 2.0*t) // smoothstep
		ax, ay := inj.toAbsolute(sx+int(float64(dx)*t), sy+int(float64(dy)*t))
		if err := inj.sendMouse(mouseEventfMove|mouseEventfAbsolute, ax, ay); err != nil {
			return err
		}
		time.Sleep(stepDelay)
	}
	return nil
}

func (inj *windowsInjector) buttonPair(down, up uint32) error {
	if err := inj.sendMouse(down, 0, 0); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return inj.sendMouse(up, 0, 0)
}

func (inj *windowsInjector) moveAndPress(ctx context.Context, x, y int, down, up uint32) error {
	px := inj.toPixel(x, inj.screenW)
	py := inj.toPixel(y, inj.screenH)
	if err := inj.smoothMove(ctx, px, py); err != nil {
		return err
	}
	time.Sleep(clickDelay)
	return inj.buttonPair(down, up)
}

func (inj *windowsInjector) Click(ctx context.Context, x, y int) error {
	return inj.moveAndPress(ctx, x, y, mouseEventfLeftDown, mouseEventfLeftUp)
}

func (inj *windowsInjector) RightClick(ctx context.Context, x, y int) error {
	return inj.moveAndPress(ctx, x, y, mouseEventfRightDown, mouseEventfRightUp)
}

func (inj *windowsInjector) DoubleClick(ctx context.Context, x, y int) error {
	if err := inj.Click(ctx, x, y); err != nil {
		return err
	}
	time.Sleep(60 * time.Millisecond)
	return inj.buttonPair(mouseEventfLeftDown, mouseEventfLeftUp)
}

func (inj *windowsInjector) Drag(ctx context.Context, x1, y1, x2, y2 int) error {
	if err := inj.smoothMove(ctx, inj.toPixel(x1, inj.screenW), inj.toPixel(y1, inj.screenH)); err != nil {
		return err
	}
	time.Sleep(80 * time.Millisecond)
	if err := inj.sendMouse(mouseEventfLeftDown, 0, 0); err != nil {
		return err
	}
	time.Sleep(60 * time.Millisecond)
	if err := inj.smoothMove(ctx, inj.toPixel(x2, inj.screenW), inj.toPixel(y2, inj.screenH)); err != nil {
		// Never leave the button held down.
		inj.sendMouse(mouseEventfLeftUp, 0, 0)
		return err
	}
	time.Sleep(60 * time.Millisecond)
	return inj.sendMouse(mouseEventfLeftUp, 0, 0)
}

// TypeText injects each rune as a synthetic unicode key down/up pair.
func (inj *windowsInjector) TypeText(ctx context.Context, text string) error {
	var items []winInput
	for _, ch := range text {
		if ch == '\r' {
			continue
		}
		code := uint16(ch)
		if ch == '\n' {
			code = 0x000D
		}
		for _, flags := range []uint32{keyEventfUnicode, keyEventfUnicode | keyEventfKeyUp} {
			in := winInput{inputType: inputKeyboard}
			ki := keybdInput{wScan: code, dwFlags: flags}
			*(*keybdInput)(unsafe.Pointer(&in.mi)) = ki
			items = append(items, in)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return inj.sendInputs(items)
}
