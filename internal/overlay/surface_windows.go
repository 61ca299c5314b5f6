//go:build windows

package overlay

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	wsPopup          = 0x80000000
	wsExLayered      = 0x00080000
	wsExTransparent  = 0x00000020
	wsExTopmost      = 0x00000008
	wsExToolWindow   = 0x00000080
	swShowNoActivate = 4
	ulwAlpha         = 0x00000002
	acSrcOver        = 0x00
	acSrcAlpha       = 0x01
	pmRemove         = 0x0001
	wmQuit           = 0x0012
	wmDestroy        = 0x0002
	smCxScreen       = 0
	smCyScreen       = 1

	windowClassName = "MarionetteOverlay"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	gdi32            = windows.NewLazySystemDLL("gdi32.dll")
	kernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procRegisterCls  = user32.NewProc("RegisterClassExW")
	procCreateWindow = user32.NewProc("CreateWindowExW")
	procDefWindowPrc = user32.NewProc("DefWindowProcW")
	procDestroyWnd   = user32.NewProc("DestroyWindow")
	procShowWindow   = user32.NewProc("ShowWindow")
	procPeekMessage  = user32.NewProc("PeekMessageW")
	procTranslateMsg = user32.NewProc("TranslateMessage")
	procDispatchMsg  = user32.NewProc("DispatchMessageW")
	procUpdateLayerd = user32.NewProc("UpdateLayeredWindow")
	procGetDC        = user32.NewProc("GetDC")
	procReleaseDC    = user32.NewProc("ReleaseDC")
	procGetMetrics   = user32.NewProc("GetSystemMetrics")
	procCreateDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIB    = gdi32.NewProc("CreateDIBSection")
	procSelectObject = gdi32.NewProc("SelectObject")
	procDeleteDC     = gdi32.NewProc("DeleteDC")
	procDeleteObject = gdi32.NewProc("DeleteObject")
	procGetModule    = kernel32.NewProc("GetModuleHandleW")
)

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   windows.Handle
	icon       windows.Handle
	cursor     windows.Handle
	background windows.Handle
	menuName   *uint16
	className  *uint16
	iconSm     windows.Handle
}

type msg struct {
	hwnd    windows.Handle
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

type point32 struct{ x, y int32 }

type size32 struct{ cx, cy int32 }

type blendFunction struct {
	op     byte
	flags  byte
	alpha  byte
	format byte
}

type bitmapInfoHeader struct {
	size          uint32
	width         int32
	height        int32
	planes        uint16
	bitCount      uint16
	compression   uint32
	sizeImage     uint32
	xPelsPerMeter int32
	yPelsPerMeter int32
	clrUsed       uint32
	clrImportant  uint32
}

type bitmapInfo struct {
	header bitmapInfoHeader
	colors [1]uint32
}

// layeredSurface is a full-screen WS_EX_LAYERED window presented through
// UpdateLayeredWindow with per-pixel premultiplied alpha.
type layeredSurface struct {
	hwnd      windows.Handle
	w, h      int
	destroyed bool
}

// NewPlatformSurface creates the overlay window. blockInput controls the
// WS_EX_TRANSPARENT click-through style: without it the window swallows
// all input under it.
func NewPlatformSurface(blockInput bool) (Surface, error) {
	w, _, _ := procGetMetrics.Call(smCxScreen)
	h, _, _ := procGetMetrics.Call(smCyScreen)
	if int(w) <= 0 || int(h) <= 0 {
		return nil, fmt.Errorf("overlay: no display to cover")
	}

	instance, _, _ := procGetModule.Call(0)
	className, err := windows.UTF16PtrFromString(windowClassName)
	if err != nil {
		return nil, err
	}

	cls := wndClassEx{
		size:      uint32(unsafe.Sizeof(wndClassEx{})),
		wndProc:   procDefWindowPrc.Addr(),
		instance:  windows.Handle(instance),
		className: className,
	}
	// Re-registration after a restart in the same process is fine.
	procRegisterCls.Call(uintptr(unsafe.Pointer(&cls)))

	exStyle := uintptr(wsExLayered | wsExTopmost | wsExToolWindow)
	if !blockInput {
		exStyle |= wsExTransparent
	}

	hwnd, _, _ := procCreateWindow.Call(
		exStyle,
		uintptr(unsafe.Pointer(className)),
		0,
		wsPopup,
		0, 0, w, h,
		0, 0, instance, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("overlay: CreateWindowEx failed")
	}

	return &layeredSurface{hwnd: windows.Handle(hwnd), w: int(w), h: int(h)}, nil
}

func (s *layeredSurface) Show() error {
	procShowWindow.Call(uintptr(s.hwnd), swShowNoActivate)
	return nil
}

func (s *layeredSurface) Size() (int, int) { return s.w, s.h }

// Present pushes a premultiplied BGRA buffer to the layered window.
func (s *layeredSurface) Present(pix []byte, w, h int) error {
	if len(pix) != w*h*4 {
		return fmt.Errorf("overlay: buffer is %d bytes, want %d", len(pix), w*h*4)
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return fmt.Errorf("overlay: GetDC failed")
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateDC.Call(screenDC)
	if memDC == 0 {
		return fmt.Errorf("overlay: CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(memDC)

	bi := bitmapInfo{header: bitmapInfoHeader{
		size:     uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		width:    int32(w),
		height:   -int32(h), // top-down
		planes:   1,
		bitCount: 32,
	}}
	var bits unsafe.Pointer
	bitmap, _, _ := procCreateDIB.Call(
		memDC,
		uintptr(unsafe.Pointer(&bi)),
		0,
		uintptr(unsafe.Pointer(&bits)),
		0, 0,
	)
	if bitmap == 0 || bits == nil {
		return fmt.Errorf("overlay: CreateDIBSection failed")
	}
	defer procDeleteObject.Call(bitmap)

	dst := unsafe.Slice((*byte)(bits), len(pix))
	copy(dst, pix)

	old, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, old)

	srcPt := point32{}
	dstPt := point32{}
	sz := size32{cx: int32(w), cy: int32(h)}
	blend := blendFunction{op: acSrcOver, alpha: 255, format: acSrcAlpha}

	ok, _, _ := procUpdateLayerd.Call(
		uintptr(s.hwnd),
		screenDC,
		uintptr(unsafe.Pointer(&dstPt)),
		uintptr(unsafe.Pointer(&sz)),
		memDC,
		uintptr(unsafe.Pointer(&srcPt)),
		0,
		uintptr(unsafe.Pointer(&blend)),
		ulwAlpha,
	)
	if ok == 0 {
		return fmt.Errorf("overlay: UpdateLayeredWindow failed")
	}
	return nil
}

// Pump drains pending window messages. Returns false once the window has
// been destroyed or a quit message arrives.
func (s *layeredSurface) Pump() bool {
	if s.destroyed {
		return false
	}
	var m msg
	for {
		got, _, _ := procPeekMessage.Call(
			uintptr(unsafe.Pointer(&m)),
			0, 0, 0,
			pmRemove,
		)
		if got == 0 {
			return true
		}
		if m.message == wmQuit || (m.message == wmDestroy && m.hwnd == s.hwnd) {
			s.destroyed = true
			return false
		}
		procTranslateMsg.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMsg.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (s *layeredSurface) Close() error {
	if !s.destroyed {
		procDestroyWnd.Call(uintptr(s.hwnd))
		s.destroyed = true
	}
	return nil
}
