package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDetectorUnavailable means the client has no camera or no
	// permission. Sessions recover from it via the demo fallback.
	ErrDetectorUnavailable = errors.New("barcode detector unavailable")

	// ErrDetectorBusy means the device is already acquired.
	ErrDetectorBusy = errors.New("barcode detector already acquired")
)

// Handle identifies one acquisition of the detector device.
type Handle string

// Detector wraps the optical-decoding capability. At most one
// successful detection is delivered per activation. Deactivate is safe
// to call on any path, including after a failed activation.
type Detector interface {
	Activate(ctx context.Context) (Handle, error)
	OnDetected(fn func(barcode string))
	Deactivate(handle Handle)
}

// RemoteDetector bridges client-side barcode decoding into a session:
// the browser does the optical work and pushes the decoded value over
// HTTP, which lands here via Deliver.
type RemoteDetector struct {
	available bool

	mu        sync.Mutex
	active    bool
	handle    Handle
	fn        func(barcode string)
	delivered bool
}

func NewRemoteDetector(available bool) *RemoteDetector {
	return &RemoteDetector{available: available}
}

func (d *RemoteDetector) Activate(_ context.Context) (Handle, error) {
	if !d.available {
		return "", ErrDetectorUnavailable
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		return "", ErrDetectorBusy
	}
	d.active = true
	d.delivered = false
	d.handle = Handle(uuid.NewString())
	return d.handle, nil
}

func (d *RemoteDetector) OnDetected(fn func(barcode string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fn = fn
}

// Deliver feeds one decoded barcode into the active acquisition. Only
// the first delivery per activation is honored; the rest are dropped.
func (d *RemoteDetector) Deliver(barcode string) bool {
	d.mu.Lock()
	if !d.active || d.delivered || d.fn == nil {
		d.mu.Unlock()
		return false
	}
	d.delivered = true
	fn := d.fn
	d.mu.Unlock()

	fn(barcode)
	return true
}

func (d *RemoteDetector) Deactivate(handle Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active || (handle != "" && handle != d.handle) {
		return
	}
	d.active = false
	d.fn = nil
}

// Active reports whether the device is currently acquired.
func (d *RemoteDetector) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
