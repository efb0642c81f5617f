package notice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	h := NewHub(4)
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelB()

	n := New(KindIllegalConnection, "nope")
	h.Notify(n)

	assert.Equal(t, n, <-a)
	assert.Equal(t, n, <-b)

	cancelA()
	cancelA() // idempotent
	_, open := <-a
	assert.False(t, open)

	h.Notify(New(KindIllegalConnection, "again"))
	got := <-b
	assert.Equal(t, "again", got.Message)
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Notify(New(KindIllegalConnection, "first"))
	h.Notify(New(KindIllegalConnection, "second")) // dropped

	got := <-ch
	assert.Equal(t, "first", got.Message)
	assert.Len(t, ch, 0)
}

func TestHub_Close(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe()
	h.Close()
	_, open := <-ch
	require.False(t, open)
	cancel() // safe after Close
}

func TestNew(t *testing.T) {
	a := New(KindIllegalConnection, "x")
	b := New(KindIllegalConnection, "x")
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.At.IsZero())
}
