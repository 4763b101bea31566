package entity

// ConnectionState is the wallet connection status shown in the status badge.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateWrongNetwork
	StateFailed
)

// Badge classes used by the frontends to colour the status badge.
const (
	BadgeClassConnecting   = "status-connecting"
	BadgeClassConnected    = "status-connected"
	BadgeClassDisconnected = "status-disconnected"
)

// String returns the badge label for the state.
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateWrongNetwork:
		return "Wrong Network"
	case StateFailed:
		return "Failed"
	default:
		return "Disconnected"
	}
}

// BadgeClass returns the CSS-like class of the badge. WrongNetwork and Failed share the
// disconnected colour.
func (s ConnectionState) BadgeClass() string {
	switch s {
	case StateConnecting:
		return BadgeClassConnecting
	case StateConnected:
		return BadgeClassConnected
	default:
		return BadgeClassDisconnected
	}
}

// MarshalText renders the state as its badge label in JSON and YAML.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
