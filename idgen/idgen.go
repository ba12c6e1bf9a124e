// Package idgen generates identifiers for autofill runs and stored records.
//
// Constructors accept a Generator so tests can pin IDs.
package idgen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 v7 UUIDs. They sort by creation
// time, which keeps run history in trigger order.
func UUIDv7() Generator {
	return func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
}

// Prefixed prepends prefix to every ID ("run_", "imp_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a deterministic Generator: prefix-1, prefix-2, ...
func Sequence(prefix string) Generator {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Default names runs.
var Default Generator = Prefixed("run_", UUIDv7())

// New produces an ID using Default.
func New() string {
	return Default()
}

// Time extracts the creation time embedded in a v7 ID, with or without a
// prefix.
func Time(id string) (time.Time, error) {
	if i := len(id) - 36; i > 0 {
		id = id[i:]
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("idgen: parse %q: %w", id, err)
	}
	if u.Version() != 7 {
		return time.Time{}, fmt.Errorf("idgen: %q is not a v7 uuid", id)
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec), nil
}
