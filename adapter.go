package gcnctrl

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const (
	inEndpointNum  = 1
	outEndpointNum = 2
)

// startCommand switches the adapter from idle into continuous report
// streaming. It is written once to the interrupt OUT endpoint; the
// adapter sends no reply beyond the transfer result.
var startCommand = []byte{0x13}

// Adapter is one discovered, not yet streaming adapter device. It is
// single-use: Listen consumes it and hands the open session to the
// returned Listener.
type Adapter struct {
	device usbDevice
}

// Listen claims the adapter's USB interface, issues the start-streaming
// handshake, and returns a Listener owning the now-active session. The
// Adapter is unusable afterward; a second call fails with ErrOpenFailed.
func (adapter *Adapter) Listen() (*Listener, error) {
	device := adapter.device
	if device == nil {
		return nil, errors.Wrap(ErrOpenFailed, "adapter already consumed")
	}
	adapter.device = nil

	if err := device.SetAutoDetach(true); err != nil {
		device.Close()
		return nil, errors.Wrap(ErrOpenFailed, err.Error())
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		return nil, errors.Wrap(ErrOpenFailed, err.Error())
	}

	in, err := intf.InEndpoint(inEndpointNum)
	if err != nil {
		done()
		device.Close()
		return nil, errors.Wrap(ErrOpenFailed, err.Error())
	}

	out, err := intf.OutEndpoint(outEndpointNum)
	if err != nil {
		done()
		device.Close()
		return nil, errors.Wrap(ErrOpenFailed, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultReadTimeout)
	defer cancel()

	if _, err := out.WriteContext(ctx, startCommand); err != nil {
		done()
		device.Close()
		return nil, errors.Wrap(ErrInitFailed, err.Error())
	}

	return &Listener{
		Timeout: DefaultReadTimeout,
		device:  device,
		done:    done,
		in:      in,
	}, nil
}

// Close releases the device without listening, for an Adapter that is
// discovered but never used.
func (adapter *Adapter) Close() error {
	device := adapter.device
	if device == nil {
		return nil
	}
	adapter.device = nil

	return device.Close()
}

// DefaultReadTimeout bounds one blocking report read. The official
// adapter streams at 125Hz, so a full second without a report already
// signals an unresponsive device.
const DefaultReadTimeout = time.Second
