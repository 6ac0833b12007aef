package session

// State defines a public type used by autocrud APIs.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State uint8

const (
	// StateActive is an exported constant or variable used by the session manager.
	StateActive State = iota
	// StateRevoked is an exported constant or variable used by the session manager.
	StateRevoked
	// StateExpired is an exported constant or variable used by the session manager.
	StateExpired
)

// String describes the string operation and its observable behavior.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateRevoked:
		return "revoked"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func parseState(v string) State {
	switch v {
	case "revoked":
		return StateRevoked
	case "expired":
		return StateExpired
	default:
		return StateActive
	}
}

// Session defines a public type used by autocrud APIs.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	ID        string
	Subject   string
	IssuedAt  int64
	ExpiresAt int64
	State     State
}
