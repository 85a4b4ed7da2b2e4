// Package engine implements command semantics on top of pkg/store: the Get/Set/Incr/Ttl/Append/Strlen/
// Client contracts the transport ultimately exposes over RESP.
package engine

// CommandType discriminates the operation a Command requests.
type CommandType int

const (
	Get CommandType = iota
	Set
	Incr
	Ttl
	Append
	Strlen
	Client
)

// String names a CommandType the way it appears on the wire, used for metric labels and log fields.
func (t CommandType) String() string {
	switch t {
	case Get:
		return "GET"
	case Set:
		return "SET"
	case Incr:
		return "INCR"
	case Ttl:
		return "TTL"
	case Append:
		return "APPEND"
	case Strlen:
		return "STRLEN"
	case Client:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// ExpirationKind discriminates how an Expiration's N should be interpreted.
type ExpirationKind int

const (
	Seconds ExpirationKind = iota
	Milliseconds
	UnixTimeSeconds
	UnixTimeMilliseconds
	Keep
)

// Expiration is a SET option describing how to compute (or preserve) an entry's expiresAt. N is unused
// when Kind is Keep.
type Expiration struct {
	Kind ExpirationKind
	N    int64
}

// SetCondition is a SET precondition on key presence.
type SetCondition int

const (
	IfNotExists SetCondition = iota
	IfExists
)

// Command is a decoded, typed engine operation. Only the fields relevant to Type are meaningful:
//   - Get, Ttl, Strlen: Key.
//   - Set: Key, Value, Expiration (nil means "clear expiration"), ReturnPrevious, Condition (nil means
//     unconditional).
//   - Incr: Key.
//   - Append: Key, Value.
//   - Client: none.
type Command struct {
	Type           CommandType
	Key            []byte
	Value          []byte
	Expiration     *Expiration
	ReturnPrevious bool
	Condition      *SetCondition
}
