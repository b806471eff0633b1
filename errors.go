package gcnctrl

import "errors"

var (
	// ErrTransportUnavailable means the native USB stack could not be
	// initialized or enumerated. Fatal for the Scanner that reported it.
	ErrTransportUnavailable = errors.New("usb transport unavailable")

	// ErrOpenFailed means the adapter device could not be opened or its
	// interface could not be claimed. Discovery may be retried fresh.
	ErrOpenFailed = errors.New("adapter open failed")

	// ErrInitFailed means the start-streaming handshake was rejected or
	// timed out.
	ErrInitFailed = errors.New("adapter init failed")

	// ErrTimeout means a single report read did not complete within the
	// read timeout. Transient; the caller may call Read again.
	ErrTimeout = errors.New("report read timed out")

	// ErrInvalidReport means one report was malformed (short read or
	// unexpected report ID). Transient; it does not imply device loss.
	ErrInvalidReport = errors.New("invalid report")

	// ErrDeviceLost means the transport failed underneath the Listener.
	// Terminal: the Listener must be discarded and discovery re-run.
	ErrDeviceLost = errors.New("adapter device lost")
)
