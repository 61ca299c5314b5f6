//go:build windows

package frame

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	gdiSrcCopy     = 0x00CC0020
	gdiCaptureBlt  = 0x40000000
	dibRGBColors   = 0
	smCxScreenGrab = 0
	smCyScreenGrab = 1
)

var (
	user32grab          = windows.NewLazySystemDLL("user32.dll")
	gdi32               = windows.NewLazySystemDLL("gdi32.dll")
	procGetDC           = user32grab.NewProc("GetDC")
	procReleaseDC       = user32grab.NewProc("ReleaseDC")
	procGetMetricsGrab  = user32grab.NewProc("GetSystemMetrics")
	procCreateDC        = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIB       = gdi32.NewProc("CreateDIBSection")
	procSelectObject    = gdi32.NewProc("SelectObject")
	procBitBlt          = gdi32.NewProc("BitBlt")
	procDeleteDC        = gdi32.NewProc("DeleteDC")
	procDeleteObject    = gdi32.NewProc("DeleteObject")
)

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

// gdiGrabber captures the full display through a BitBlt into a DIB section.
type gdiGrabber struct{}

// NewPlatformGrabber returns the GDI-backed display grabber.
func NewPlatformGrabber() (Grabber, error) {
	w, _, _ := procGetMetricsGrab.Call(smCxScreenGrab)
	h, _, _ := procGetMetricsGrab.Call(smCyScreenGrab)
	if int(w) <= 0 || int(h) <= 0 {
		return nil, ErrNoDisplay
	}
	return &gdiGrabber{}, nil
}

func (g *gdiGrabber) Capture() ([]byte, int, int, error) {
	wRaw, _, _ := procGetMetricsGrab.Call(smCxScreenGrab)
	hRaw, _, _ := procGetMetricsGrab.Call(smCyScreenGrab)
	w, h := int(wRaw), int(hRaw)
	if w <= 0 || h <= 0 {
		return nil, 0, 0, ErrNoDisplay
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, 0, 0, ErrNoDisplay
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateDC.Call(screenDC)
	if memDC == 0 {
		return nil, 0, 0, fmt.Errorf("frame: CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(memDC)

	// Negative height requests a top-down DIB, matching the renderer's
	// buffer layout.
	bi := bitmapInfo{header: bitmapInfoHeader{
		size:     uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		width:    int32(w),
		height:   -int32(h),
		planes:   1,
		bitCount: 32,
	}}

	var bits unsafe.Pointer
	bitmap, _, _ := procCreateDIB.Call(
		memDC,
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bits)),
		0, 0,
	)
	if bitmap == 0 || bits == nil {
		return nil, 0, 0, fmt.Errorf("frame: CreateDIBSection failed")
	}
	defer procDeleteObject.Call(bitmap)

	old, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, old)

	ok, _, _ := procBitBlt.Call(
		memDC, 0, 0, uintptr(w), uintptr(h),
		screenDC, 0, 0,
		gdiSrcCopy|gdiCaptureBlt,
	)
	if ok == 0 {
		return nil, 0, 0, fmt.Errorf("frame: BitBlt failed")
	}

	// Copy out before the DIB section is deleted.
	size := w * h * 4
	src := unsafe.Slice((*byte)(bits), size)
	out := make([]byte, size)
	copy(out, src)
	return out, w, h, nil
}
