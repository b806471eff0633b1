package gcnctrl

import (
	"context"
	"testing"
	"time"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newFakeService(usb *fakeContext) *service {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Adapter.RescanInterval = 10 * time.Millisecond

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	svc := &service{
		log:     zap.NewNop(),
		cfg:     cfg,
		scanner: newScanner(usb),
		cancel:  cancel,
	}

	svc.wg.Add(1)
	go svc.run(ctx)

	return svc
}

func TestServiceSnapshot(t *testing.T) {
	assert := assert.New(t)

	data := newReport(connectPort(0, 1), func(data []byte) {
		data[2] = 0b0000_0001 // A
	})

	device := newFakeDevice(readResult{data: data})

	usb := &fakeContext{
		devices: []usbDevice{device},
		ids:     []DeviceID{{Vendor: 0x057e, Product: 0x0337}},
	}

	svc := newFakeService(usb)
	defer svc.Close()

	assert.Eventually(func() bool {
		controller, err := svc.Controller(0)
		if err != nil {
			return false
		}

		return controller.Buttons.Pressed(ButtonA)
	}, time.Second, 5*time.Millisecond)

	assert.True(svc.Connected())

	_, err := svc.Controller(1)
	assert.Error(err)
}

func TestServiceRediscoversLostAdapter(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice(readResult{err: gousb.ErrorNoDevice})

	usb := &fakeContext{
		devices: []usbDevice{device},
		ids:     []DeviceID{{Vendor: 0x057e, Product: 0x0337}},
	}

	svc := newFakeService(usb)
	defer svc.Close()

	// Every session dies on its first read; the service keeps going
	// back to discovery instead of giving up.
	assert.Eventually(func() bool {
		return device.intf.in.reads.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestServiceClose(t *testing.T) {
	assert := assert.New(t)

	usb := &fakeContext{}

	svc := newFakeService(usb)

	assert.NoError(svc.Close())
	assert.True(usb.closed)
	assert.Equal(States{}, svc.States())
}
