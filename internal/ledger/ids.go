package ledger

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for new expenses.
// Implementations must not repeat an identifier within a process.
type IDGenerator interface {
	NewID() string
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a random UUID. If the system random source fails it falls
// back to exp_<unix-ms>_<random hex>.
func (UUIDGenerator) NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackID(time.Now())
	}
	return id.String()
}

func fallbackID(now time.Time) string {
	return fmt.Sprintf("exp_%d_%x", now.UnixMilli(), rand.Uint64())
}
