package gcnctrl

import (
	"context"
	"errors"
	"time"
)

// Listener owns the open streaming session and reads one report per
// Read call. It is single-threaded: Read blocks the calling goroutine
// for at most Timeout per invocation, and there is no background
// delivery.
type Listener struct {
	// Timeout bounds one blocking report read.
	Timeout time.Duration

	device usbDevice
	done   func()
	in     usbInEndpoint
	buffer [reportLength]byte
	lost   bool
	closed bool
}

// Read performs one interrupt transfer and decodes it into the four
// port states.
//
// ErrTimeout and ErrInvalidReport are transient; the caller may simply
// call Read again. ErrDeviceLost is terminal: the session is gone, this
// Listener stays lost, and every later Read fails the same way. Retry
// and rediscovery policy is left entirely to the caller.
func (listener *Listener) Read(ctx context.Context) (States, error) {
	var states States

	if listener.lost {
		return states, ErrDeviceLost
	}

	ctx, cancel := context.WithTimeout(ctx, listener.Timeout)
	defer cancel()

	n, err := listener.in.ReadContext(ctx, listener.buffer[:])
	if err != nil {
		err = classifyReadError(err)
		if errors.Is(err, ErrDeviceLost) {
			listener.lost = true
		}

		return states, err
	}

	return DecodeReport(listener.buffer[:n])
}

// Close releases the interface claim and the device handle. Safe to
// call on a lost Listener and more than once.
func (listener *Listener) Close() error {
	if listener.closed {
		return nil
	}
	listener.closed = true

	listener.done()
	return listener.device.Close()
}
