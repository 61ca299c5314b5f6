//go:build !windows

package statesync

// NewEventNotifier returns the poll-only notifier on platforms without
// named event objects. The overlay still redraws on its poll interval; it
// just never gets woken early.
func NewEventNotifier(name string) (Notifier, error) {
	return pollNotifier{}, nil
}
