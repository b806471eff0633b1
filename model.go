package gcnctrl

import (
	"errors"
	"strings"
)

// NumPorts is the number of physical controller sockets on the adapter.
const NumPorts = 4

const (
	reportID        byte = 0x21
	portBlockLength      = 9
	reportLength         = 1 + NumPorts*portBlockLength
)

// PortIndex identifies one of the four adapter ports, 0 through 3.
type PortIndex uint8

func ParsePortIndex(port int) (PortIndex, error) {
	if port < 0 || port >= NumPorts {
		return 0, errors.New("port out of range")
	}

	return PortIndex(port), nil
}

// ConnectionKind classifies the controller reported by a port's status nibble.
type ConnectionKind int

const (
	ConnectionNone ConnectionKind = iota
	ConnectionWired
	ConnectionWireless
	ConnectionUnknown
)

func (kind ConnectionKind) String() string {
	switch kind {
	case ConnectionNone:
		return "none"
	case ConnectionWired:
		return "wired"
	case ConnectionWireless:
		return "wireless"
	default:
		return "unknown"
	}
}

// Button is a single digital input on a GameCube controller.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeft
	ButtonRight
	ButtonDown
	ButtonUp
	ButtonStart
	ButtonZ
	ButtonR
	ButtonL
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonX:
		return "X"
	case ButtonY:
		return "Y"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonDown:
		return "Down"
	case ButtonUp:
		return "Up"
	case ButtonStart:
		return "Start"
	case ButtonZ:
		return "Z"
	case ButtonR:
		return "R"
	case ButtonL:
		return "L"
	default:
		return "unknown"
	}
}

// Buttons is the set of pressed digital inputs, one bit per Button.
type Buttons uint16

func (buttons Buttons) Pressed(b Button) bool {
	return buttons&Buttons(b) != 0
}

func (buttons Buttons) String() string {
	if buttons == 0 {
		return "none"
	}

	names := make([]string, 0, 12)
	for b := ButtonA; b <= ButtonL; b <<= 1 {
		if buttons.Pressed(b) {
			names = append(names, b.String())
		}
	}

	return strings.Join(names, "+")
}

// Stick is a raw analog stick position. Values are device range, not
// calibrated: rest sits near 0x80 and the hardware rarely reports
// either extreme of the spectrum.
type Stick struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

// Controller is the decoded state of one connected controller.
type Controller struct {
	Kind     ConnectionKind `json:"kind"`
	Buttons  Buttons        `json:"buttons"`
	Stick    Stick          `json:"stick"`
	CStick   Stick          `json:"cstick"`
	TriggerL uint8          `json:"triggerL"`
	TriggerR uint8          `json:"triggerR"`
}

// States holds one decoded report, in physical port order. A nil entry
// means no controller is plugged into that port.
type States [NumPorts]*Controller

func (states States) Port(port PortIndex) (*Controller, bool) {
	if port >= NumPorts {
		return nil, false
	}

	controller := states[port]
	return controller, controller != nil
}

// DecodeReport decodes one raw interrupt-transfer report into the four
// port states. It is a pure function of the buffer: the same bytes
// always decode to the same states, and each port block decodes
// independently of the other three.
func DecodeReport(data []byte) (States, error) {
	var states States

	if len(data) != reportLength {
		return states, ErrInvalidReport
	}

	if data[0] != reportID {
		return states, ErrInvalidReport
	}

	for port := 0; port < NumPorts; port++ {
		offset := 1 + port*portBlockLength
		states[port] = decodePort(data[offset : offset+portBlockLength])
	}

	return states, nil
}

// decodePort decodes one 9-byte port block, or returns nil if the
// status nibble reports an empty port. Field bytes of an empty port are
// never read, so stale data cannot leak into a disconnected state.
func decodePort(block []byte) *Controller {
	var kind ConnectionKind
	switch block[0] >> 4 {
	case 0:
		return nil
	case 1:
		kind = ConnectionWired
	case 2:
		kind = ConnectionWireless
	default:
		kind = ConnectionUnknown
	}

	var buttons Buttons
	for bit, b := range [8]Button{
		ButtonA, ButtonB, ButtonX, ButtonY,
		ButtonLeft, ButtonRight, ButtonDown, ButtonUp,
	} {
		if block[1]&(1<<bit) != 0 {
			buttons |= Buttons(b)
		}
	}

	for bit, b := range [4]Button{ButtonStart, ButtonZ, ButtonR, ButtonL} {
		if block[2]&(1<<bit) != 0 {
			buttons |= Buttons(b)
		}
	}

	return &Controller{
		Kind:    kind,
		Buttons: buttons,
		Stick: Stick{
			X: block[3],
			Y: block[4],
		},
		CStick: Stick{
			X: block[5],
			Y: block[6],
		},
		TriggerL: block[7],
		TriggerR: block[8],
	}
}
