package engine

import (
	"math"
	"strconv"
	"time"

	"github.com/nobletooth/kiwidb/pkg/clock"
	"github.com/nobletooth/kiwidb/pkg/store"
	"github.com/nobletooth/kiwidb/pkg/utils"
)

// Engine dispatches Commands onto a Store under a Clock. It holds no state beyond those two references,
// so multiple goroutines may call Call concurrently on the same Engine value.
type Engine struct {
	store *store.Store
	clock clock.Clock
}

// New returns an Engine backed by s, reading time through c.
func New(s *store.Store, c clock.Clock) *Engine {
	return &Engine{store: s, clock: c}
}

// Call executes command to completion and returns its Result. Call never suspends and never blocks on
// I/O; an invariant violation yields an error Result, or a panic when utils.IsTestMode is set.
func (e *Engine) Call(cmd Command) Result {
	commandsMetric.WithLabelValues(cmd.Type.String()).Inc()
	switch cmd.Type {
	case Get:
		return e.get(cmd)
	case Set:
		return e.set(cmd)
	case Incr:
		return e.incr(cmd)
	case Ttl:
		return e.ttl(cmd)
	case Append:
		return e.appendValue(cmd)
	case Strlen:
		return e.strlen(cmd)
	case Client:
		return Ok()
	default:
		utils.RaiseInvariant("engine", "unknown_command_type", "Got an unrecognized command type.",
			"type", int(cmd.Type))
		return Error("ERR internal error")
	}
}

func (e *Engine) get(cmd Command) Result {
	var result Result
	found := e.store.ReadFresh(cmd.Key, func(entry store.Entry) {
		result = BulkString(entry.Value)
	})
	if !found {
		return Null()
	}
	return result
}

func (e *Engine) set(cmd Command) Result {
	h := e.store.Entry(cmd.Key)
	defer h.Release()

	if cmd.Condition != nil {
		switch *cmd.Condition {
		case IfNotExists:
			if h.Present() {
				return Null()
			}
		case IfExists:
			if !h.Present() {
				return Null()
			}
		default:
			utils.RaiseInvariant("engine", "unknown_set_condition", "Got an unrecognized SET condition.",
				"condition", int(*cmd.Condition))
		}
	}

	expiresAt := e.computeExpiresAt(cmd.Expiration, h)

	var previous []byte
	hadPrevious := h.Present()
	if hadPrevious {
		previous = h.Get().Value
	}

	h.Insert(store.Entry{Value: cmd.Value, ExpiresAt: expiresAt})

	if !cmd.ReturnPrevious {
		return Ok()
	}
	if !hadPrevious {
		return Null()
	}
	return BulkString(previous)
}

// computeExpiresAt implements spec.md §4.4 step 3: absent means "clear", Keep means "preserve whatever
// the occupied handle already had (or nothing, for a vacant one)", and the four concrete kinds compute a
// fresh absolute instant off e.clock, with no special-casing for instants already in the past.
func (e *Engine) computeExpiresAt(expiration *Expiration, h *store.Handle) *time.Time {
	if expiration == nil {
		return nil
	}
	switch expiration.Kind {
	case Seconds:
		t := e.clock.Now().Add(time.Duration(expiration.N) * time.Second)
		return &t
	case Milliseconds:
		t := e.clock.Now().Add(time.Duration(expiration.N) * time.Millisecond)
		return &t
	case UnixTimeSeconds:
		t := time.Unix(expiration.N, 0).UTC()
		return &t
	case UnixTimeMilliseconds:
		t := time.UnixMilli(expiration.N).UTC()
		return &t
	case Keep:
		if h.Present() {
			return h.Get().ExpiresAt
		}
		return nil
	default:
		utils.RaiseInvariant("engine", "unknown_expiration_kind", "Got an unrecognized expiration kind.",
			"kind", int(expiration.Kind))
		return nil
	}
}

func (e *Engine) incr(cmd Command) Result {
	h := e.store.Entry(cmd.Key)
	defer h.Release()

	if !h.Present() {
		h.Insert(store.Entry{Value: []byte("1")})
		return Integer(1)
	}

	entry := h.Get()
	old, err := strconv.ParseInt(string(entry.Value), 10, 64)
	if err != nil {
		return Error("value is not an integer or out of range")
	}
	if old == math.MaxInt64 {
		return Error("increment or decrement would overflow")
	}
	newValue := old + 1
	h.Insert(store.Entry{Value: []byte(strconv.FormatInt(newValue, 10)), ExpiresAt: entry.ExpiresAt})
	return Integer(newValue)
}

func (e *Engine) ttl(cmd Command) Result {
	var result Result
	found := e.store.ReadFresh(cmd.Key, func(entry store.Entry) {
		if entry.ExpiresAt == nil {
			result = Integer(-1)
			return
		}
		remaining := entry.ExpiresAt.Sub(e.clock.Now())
		if remaining <= 0 {
			// Already past expiresAt but not collected by this read's eager-expire step: the clock
			// moved past expiresAt between the store's expiry check and this read of Now.
			result = Integer(-2)
			return
		}
		result = Integer(int64(remaining / time.Second))
	})
	if !found {
		return Integer(-2)
	}
	return result
}

func (e *Engine) appendValue(cmd Command) Result {
	h := e.store.Entry(cmd.Key)
	defer h.Release()

	if !h.Present() {
		h.Insert(store.Entry{Value: cmd.Value})
		return Integer(int64(len(cmd.Value)))
	}

	entry := h.Get()
	newValue := make([]byte, 0, len(entry.Value)+len(cmd.Value))
	newValue = append(newValue, entry.Value...)
	newValue = append(newValue, cmd.Value...)
	h.Insert(store.Entry{Value: newValue, ExpiresAt: entry.ExpiresAt})
	return Integer(int64(len(newValue)))
}

func (e *Engine) strlen(cmd Command) Result {
	var length int64
	found := e.store.ReadFresh(cmd.Key, func(entry store.Entry) {
		length = int64(len(entry.Value))
	})
	if !found {
		return Integer(0)
	}
	return Integer(length)
}
