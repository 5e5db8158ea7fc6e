package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFOOrder(t *testing.T) {
	rq := NewRingQueue[int](4)
	assert.True(t, rq.IsEmpty())

	for i := 1; i <= 3; i++ {
		require.NoError(t, rq.Enqueue(i))
	}
	assert.Equal(t, 3, rq.Len())

	head, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, head)
	assert.Equal(t, 3, rq.Len(), "peek does not consume")

	for i := 1; i <= 3; i++ {
		value, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}
	assert.True(t, rq.IsEmpty())
}

func TestRingQueueCapacity(t *testing.T) {
	rq := NewRingQueue[string](2)
	require.NoError(t, rq.Enqueue("a"))
	require.NoError(t, rq.Enqueue("b"))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue("c"), ErrQueueFull)

	_, err := rq.Dequeue()
	require.NoError(t, err)
	require.NoError(t, rq.Enqueue("c"), "space frees up after a dequeue")
}

func TestRingQueueEmptyErrors(t *testing.T) {
	rq := NewRingQueue[int](1)
	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, rq.Enqueue(round*10+i))
		}
		for i := 0; i < 3; i++ {
			value, err := rq.Dequeue()
			require.NoError(t, err)
			assert.Equal(t, round*10+i, value)
		}
	}
}
