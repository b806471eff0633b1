package gcnctrl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdapterListen(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice(readResult{data: newReport()})
	adapter := &Adapter{device: device}

	listener, err := adapter.Listen()
	if err != nil {
		assert.Fail(err.Error())
		return
	}
	defer listener.Close()

	// The handshake is a single start command on the OUT endpoint.
	written := device.intf.out.written
	if assert.Len(written, 1) {
		assert.Equal(startCommand, written[0])
	}
}

func TestAdapterListenConsumes(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice(readResult{data: newReport()})
	adapter := &Adapter{device: device}

	listener, err := adapter.Listen()
	if err != nil {
		assert.Fail(err.Error())
		return
	}
	defer listener.Close()

	// The session moved to the Listener; the Adapter is spent.
	_, err = adapter.Listen()
	assert.ErrorIs(err, ErrOpenFailed)
}

func TestAdapterListenClaimFails(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice()
	device.claimErr = errors.New("interface busy")
	adapter := &Adapter{device: device}

	_, err := adapter.Listen()
	assert.ErrorIs(err, ErrOpenFailed)
	assert.True(device.closed)
}

func TestAdapterListenInitFails(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice()
	device.intf.out.err = errors.New("transfer rejected")
	adapter := &Adapter{device: device}

	_, err := adapter.Listen()
	assert.ErrorIs(err, ErrInitFailed)
	assert.True(device.released)
	assert.True(device.closed)
}

func TestAdapterClose(t *testing.T) {
	assert := assert.New(t)

	device := newFakeDevice()
	adapter := &Adapter{device: device}

	assert.NoError(adapter.Close())
	assert.True(device.closed)

	_, err := adapter.Listen()
	assert.ErrorIs(err, ErrOpenFailed)
}
