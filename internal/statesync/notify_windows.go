//go:build windows

package statesync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// eventNotifier wraps a named, manual-reset Win32 event. Both the turn
// process and the overlay open the same name; whichever starts first
// creates it. Manual-reset keeps the event latched until the consumer
// drains it, so a signal sent while the overlay is mid-redraw is not lost.
type eventNotifier struct {
	handle windows.Handle
}

// NewEventNotifier creates or opens the named manual-reset event.
func NewEventNotifier(name string) (Notifier, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("statesync: event name %q: %w", name, err)
	}
	h, err := windows.CreateEvent(nil, 1 /* manual reset */, 0, namePtr)
	if err != nil && err != windows.ERROR_ALREADY_EXISTS {
		return nil, fmt.Errorf("statesync: create event %q: %w", name, err)
	}
	if h == 0 {
		return nil, fmt.Errorf("statesync: create event %q returned null handle", name)
	}
	return &eventNotifier{handle: h}, nil
}

func (n *eventNotifier) Signal() error {
	if err := windows.SetEvent(n.handle); err != nil {
		return fmt.Errorf("statesync: set event: %w", err)
	}
	return nil
}

// Wait blocks in short slices so ctx cancellation stays responsive. On
// wake the event is reset before returning, consuming the signal.
func (n *eventNotifier) Wait(ctx context.Context, timeout time.Duration) bool {
	const slice = 100 * time.Millisecond
	deadline := time.Now().Add(timeout)
	for {
		if ctx.Err() != nil {
			return false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if remaining > slice {
			remaining = slice
		}
		status, err := windows.WaitForSingleObject(n.handle, uint32(remaining.Milliseconds()))
		if err != nil {
			return false
		}
		if status == windows.WAIT_OBJECT_0 {
			windows.ResetEvent(n.handle)
			return true
		}
	}
}

func (n *eventNotifier) Close() error {
	return windows.CloseHandle(n.handle)
}
