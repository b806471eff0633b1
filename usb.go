package gcnctrl

import (
	"context"
	"io"

	"github.com/google/gousb"
	"github.com/pkg/errors"
)

// The interfaces below wrap the slice of gousb the protocol layer
// actually touches. The Listener and Scanner are written against them,
// so protocol tests run over an in-memory transport with canned report
// buffers instead of real hardware.

type usbContext interface {
	io.Closer
	OpenDevices(opener func(vendor, product uint16) bool) ([]usbDevice, error)
}

type usbDevice interface {
	io.Closer
	SetAutoDetach(autodetach bool) error
	DefaultInterface() (usbInterface, func(), error)
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

type usbInterface interface {
	InEndpoint(epNum int) (usbInEndpoint, error)
	OutEndpoint(epNum int) (usbOutEndpoint, error)
}

type usbInEndpoint interface {
	ReadContext(ctx context.Context, buf []byte) (int, error)
}

type usbOutEndpoint interface {
	WriteContext(ctx context.Context, buf []byte) (int, error)
}

//
// gousb adapters.
//

type gousbContext struct {
	ctx *gousb.Context
}

func (c *gousbContext) OpenDevices(opener func(vendor, product uint16) bool) ([]usbDevice, error) {
	devs, err := c.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return opener(uint16(desc.Vendor), uint16(desc.Product))
	})

	devices := make([]usbDevice, 0, len(devs))
	for _, dev := range devs {
		devices = append(devices, &gousbDevice{dev})
	}

	if err != nil {
		for _, dev := range devices {
			dev.Close()
		}

		return nil, errors.Wrap(err, "open devices")
	}

	return devices, nil
}

func (c *gousbContext) Close() error {
	return c.ctx.Close()
}

type gousbDevice struct {
	dev *gousb.Device
}

func (d *gousbDevice) SetAutoDetach(autodetach bool) error {
	return d.dev.SetAutoDetach(autodetach)
}

func (d *gousbDevice) DefaultInterface() (usbInterface, func(), error) {
	intf, done, err := d.dev.DefaultInterface()
	if err != nil {
		return nil, nil, err
	}

	return &gousbInterface{intf}, done, nil
}

func (d *gousbDevice) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	return d.dev.Control(rType, request, val, idx, data)
}

func (d *gousbDevice) Close() error {
	return d.dev.Close()
}

type gousbInterface struct {
	intf *gousb.Interface
}

func (i *gousbInterface) InEndpoint(epNum int) (usbInEndpoint, error) {
	return i.intf.InEndpoint(epNum)
}

func (i *gousbInterface) OutEndpoint(epNum int) (usbOutEndpoint, error) {
	return i.intf.OutEndpoint(epNum)
}

// classifyReadError maps a transport read failure onto the library's
// error taxonomy. Timeouts stay transient; anything else on the read
// path means the session underneath the Listener is gone.
func classifyReadError(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, ErrTimeout), errors.Is(err, ErrDeviceLost):
		return err

	case errors.Is(err, gousb.TransferTimedOut),
		errors.Is(err, gousb.ErrorTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout

	default:
		return ErrDeviceLost
	}
}
