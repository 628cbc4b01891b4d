package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanya/signaling-server/internal/model"
)

type nopSender struct{}

func (nopSender) Send(model.Response) error { return nil }
func (nopSender) Close() error              { return nil }

func newSession() *model.Session {
	return model.NewSession(uuid.New(), nopSender{})
}

func TestRegistry_InsertIfAbsent(t *testing.T) {
	r := New()
	first := newSession()
	second := newSession()

	assert.True(t, r.InsertIfAbsent("alice", first))
	assert.False(t, r.InsertIfAbsent("alice", second))

	got, ok := r.Get("alice")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RemoveThenReinsert(t *testing.T) {
	r := New()
	first := newSession()

	require.True(t, r.InsertIfAbsent("bob", first))
	r.Remove("bob", first)

	_, ok := r.Get("bob")
	assert.False(t, ok)
	assert.True(t, r.InsertIfAbsent("bob", newSession()))
}

func TestRegistry_RemoveIgnoresOtherSession(t *testing.T) {
	r := New()
	winner := newSession()
	loser := newSession()

	require.True(t, r.InsertIfAbsent("carol", winner))
	r.Remove("carol", loser)

	got, ok := r.Get("carol")
	require.True(t, ok)
	assert.Same(t, winner, got)
}

func TestRegistry_ConcurrentInsertSingleWinner(t *testing.T) {
	r := New()

	const attempts = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.InsertIfAbsent("dave", newSession()) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 1, r.Len())
}
