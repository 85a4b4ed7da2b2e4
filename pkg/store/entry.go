package store

import "time"

// Entry is a stored value together with its optional absolute expiration instant. An Entry with a nil
// ExpiresAt is perpetual.
type Entry struct {
	Value     []byte
	ExpiresAt *time.Time
}

// IsExpired reports whether e is past its expiration at now. A perpetual entry is never expired.
func (e Entry) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
