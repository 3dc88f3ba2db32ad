package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int](8)
	for i := 1; i <= 5; i++ {
		q.Put(i)
	}

	for i := 1; i <= 5; i++ {
		v, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueEOSMarker(t *testing.T) {
	q := NewQueue[string](8)
	q.Put("a")
	q.PutEOS()
	q.Put("b")

	v, ok := q.Get()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	// One consumer observes the marker; values behind it stay queued.
	_, ok = q.Get()
	assert.False(t, ok)

	v, ok = q.Get()
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestQueueOneMarkerPerConsumer(t *testing.T) {
	q := NewQueue[int](8)
	q.PutEOS()
	q.PutEOS()

	for i := 0; i < 2; i++ {
		_, ok := q.Get()
		assert.False(t, ok)
	}
}

func TestQueuePutAbort(t *testing.T) {
	q := NewQueue[int](1)
	abort := make(chan struct{})

	require.True(t, q.PutAbort(1, abort))

	// Queue is full, so a closed abort channel wins the race.
	close(abort)
	assert.False(t, q.PutAbort(2, abort))
	assert.False(t, q.PutEOSAbort(abort))
	assert.Equal(t, 1, q.Len())
}

func TestQueueDefaultCapacity(t *testing.T) {
	q := NewQueue[int](0)
	for i := 0; i < DefaultQueueCapacity; i++ {
		q.Put(i)
	}
	assert.Equal(t, DefaultQueueCapacity, q.Len())
}
