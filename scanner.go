package gcnctrl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"
	"github.com/pkg/errors"
)

// DeviceID is one (vendor, product) pair on the adapter allow-list.
type DeviceID struct {
	Vendor  uint16
	Product uint16
}

func ParseDeviceID(id string) (DeviceID, error) {
	vendor, product, ok := strings.Cut(id, ":")
	if !ok {
		return DeviceID{}, errors.New("device id must be vendor:product")
	}

	v, err := strconv.ParseUint(vendor, 16, 16)
	if err != nil {
		return DeviceID{}, err
	}

	p, err := strconv.ParseUint(product, 16, 16)
	if err != nil {
		return DeviceID{}, err
	}

	return DeviceID{
		Vendor:  uint16(v),
		Product: uint16(p),
	}, nil
}

func (id DeviceID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// DefaultDeviceIDs is the known adapter hardware. Third-party clones
// such as the Mayflash 4-port in "PC mode" reuse the official ID, so a
// single entry covers them; supporting a clone with its own ID means
// adding an entry here or in the config, not touching decode logic.
var DefaultDeviceIDs = []DeviceID{
	{Vendor: 0x057e, Product: 0x0337},
}

// Scanner searches attached USB devices for a controller adapter. It
// owns the process-wide USB context and may be reused for sequential
// discovery attempts.
type Scanner struct {
	ctx usbContext
	ids []DeviceID
}

// NewScanner initializes USB driver connectivity. Without arguments the
// default device allow-list is used.
func NewScanner(ids ...DeviceID) (scanner *Scanner, err error) {
	defer func() {
		if r := recover(); r != nil {
			scanner = nil
			err = errors.Wrapf(ErrTransportUnavailable, "%v", r)
		}
	}()

	ctx := gousb.NewContext()

	return newScanner(&gousbContext{ctx}, ids...), nil
}

func newScanner(ctx usbContext, ids ...DeviceID) *Scanner {
	if len(ids) == 0 {
		ids = DefaultDeviceIDs
	}

	return &Scanner{
		ctx: ctx,
		ids: ids,
	}
}

// FindAdapter returns the first attached adapter on the allow-list, or
// nil if none is attached. Absence is an expected outcome, not an
// error. Additional matches are closed; driving more than one adapter
// is out of scope.
func (scanner *Scanner) FindAdapter() (*Adapter, error) {
	devices, err := scanner.ctx.OpenDevices(func(vendor, product uint16) bool {
		for _, id := range scanner.ids {
			if id.Vendor == vendor && id.Product == product {
				return true
			}
		}

		return false
	})

	if err != nil {
		for _, device := range devices {
			device.Close()
		}

		return nil, errors.Wrap(ErrTransportUnavailable, err.Error())
	}

	if len(devices) == 0 {
		return nil, nil
	}

	for _, device := range devices[1:] {
		device.Close()
	}

	return &Adapter{device: devices[0]}, nil
}

func (scanner *Scanner) Close() error {
	return scanner.ctx.Close()
}
