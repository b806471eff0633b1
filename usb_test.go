package gcnctrl

import (
	"context"
	"sync/atomic"
)

// In-memory transport fakes. readResult entries are consumed one per
// ReadContext call; the last entry repeats once the queue drains.

type readResult struct {
	data []byte
	err  error
}

type fakeInEndpoint struct {
	results []readResult
	reads   atomic.Int32
}

func (ep *fakeInEndpoint) ReadContext(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ep.reads.Add(1)

	if len(ep.results) == 0 {
		return 0, context.DeadlineExceeded
	}

	result := ep.results[0]
	if len(ep.results) > 1 {
		ep.results = ep.results[1:]
	}

	if result.err != nil {
		return 0, result.err
	}

	n := copy(buf, result.data)
	return n, nil
}

type fakeOutEndpoint struct {
	written [][]byte
	err     error
}

func (ep *fakeOutEndpoint) WriteContext(ctx context.Context, buf []byte) (int, error) {
	if ep.err != nil {
		return 0, ep.err
	}

	written := make([]byte, len(buf))
	copy(written, buf)
	ep.written = append(ep.written, written)

	return len(buf), nil
}

type fakeInterface struct {
	in  *fakeInEndpoint
	out *fakeOutEndpoint
}

func (intf *fakeInterface) InEndpoint(epNum int) (usbInEndpoint, error) {
	return intf.in, nil
}

func (intf *fakeInterface) OutEndpoint(epNum int) (usbOutEndpoint, error) {
	return intf.out, nil
}

type fakeDevice struct {
	intf     *fakeInterface
	claimErr error

	released bool
	closed   bool
}

func (dev *fakeDevice) SetAutoDetach(autodetach bool) error {
	return nil
}

func (dev *fakeDevice) DefaultInterface() (usbInterface, func(), error) {
	if dev.claimErr != nil {
		return nil, nil, dev.claimErr
	}

	return dev.intf, func() { dev.released = true }, nil
}

func (dev *fakeDevice) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	return len(data), nil
}

func (dev *fakeDevice) Close() error {
	dev.closed = true
	return nil
}

type fakeContext struct {
	devices []usbDevice
	ids     []DeviceID
	err     error
	closed  bool
}

func (ctx *fakeContext) OpenDevices(opener func(vendor, product uint16) bool) ([]usbDevice, error) {
	if ctx.err != nil {
		return nil, ctx.err
	}

	var opened []usbDevice
	for i, device := range ctx.devices {
		if opener(ctx.ids[i].Vendor, ctx.ids[i].Product) {
			opened = append(opened, device)
		}
	}

	return opened, nil
}

func (ctx *fakeContext) Close() error {
	ctx.closed = true
	return nil
}

func newFakeDevice(results ...readResult) *fakeDevice {
	return &fakeDevice{
		intf: &fakeInterface{
			in:  &fakeInEndpoint{results: results},
			out: &fakeOutEndpoint{},
		},
	}
}
