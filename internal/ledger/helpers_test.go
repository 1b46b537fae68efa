package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/spendlog/internal/models"
	"github.com/mmynk/spendlog/internal/storage/memory"
)

const baseMillis int64 = 1_700_000_000_000

// stepClock returns a time that advances by one millisecond on every call.
type stepClock struct {
	mu  sync.Mutex
	now int64
}

func newStepClock(start int64) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.UnixMilli(c.now)
	c.now++
	return t
}

// seqIDs issues id-1, id-2, ...
type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

var errQuota = errors.New("quota exceeded")

// recordingKV wraps a memory store, counts writes and can be told to fail.
type recordingKV struct {
	*memory.Store
	sets    int
	failSet bool
	failGet bool
}

func newRecordingKV() *recordingKV {
	return &recordingKV{Store: memory.New()}
}

func (r *recordingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if r.failGet {
		return "", false, errQuota
	}
	return r.Store.Get(ctx, key)
}

func (r *recordingKV) Set(ctx context.Context, key, value string) error {
	r.sets++
	if r.failSet {
		return errQuota
	}
	return r.Store.Set(ctx, key, value)
}

// seed stores a raw payload under the default key.
func (r *recordingKV) seed(t *testing.T, payload string) {
	t.Helper()
	require.NoError(t, r.Store.Set(context.Background(), models.StorageKey, payload))
}

// stored returns the raw payload under the default key.
func (r *recordingKV) stored(t *testing.T) string {
	t.Helper()
	v, ok, err := r.Store.Get(context.Background(), models.StorageKey)
	require.NoError(t, err)
	require.True(t, ok, "nothing persisted")
	return v
}

// newTestLedger builds a ledger over kv with a deterministic clock and IDs.
func newTestLedger(t *testing.T, kv *recordingKV) *Ledger {
	t.Helper()
	l, err := New(context.Background(), kv,
		WithClock(newStepClock(baseMillis)),
		WithIDGenerator(&seqIDs{}),
	)
	require.NoError(t, err)
	return l
}

// requireSorted asserts the newest-first invariant.
func requireSorted(t *testing.T, expenses []models.Expense) {
	t.Helper()
	for i := 1; i < len(expenses); i++ {
		require.GreaterOrEqual(t, sortKey(expenses[i-1]), sortKey(expenses[i]),
			"expenses %d and %d out of order", i-1, i)
	}
}
