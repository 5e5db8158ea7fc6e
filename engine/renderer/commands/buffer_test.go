package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func TestBufferLifecycle(t *testing.T) {
	buf := NewBuffer()
	assert.Equal(t, COMMAND_BUFFER_STATE_READY, buf.State())

	require.NoError(t, buf.Begin())
	assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING, buf.State())

	require.NoError(t, buf.Record(EndTarget{}))
	assert.Equal(t, 1, buf.Len())

	require.NoError(t, buf.End())
	assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING_ENDED, buf.State())

	require.NoError(t, buf.UpdateSubmitted())
	assert.Equal(t, COMMAND_BUFFER_STATE_SUBMITTED, buf.State())

	buf.Reset()
	assert.Equal(t, COMMAND_BUFFER_STATE_READY, buf.State())
	assert.Equal(t, 0, buf.Len())
}

func TestBufferRejectsOutOfOrderTransitions(t *testing.T) {
	buf := NewBuffer()

	assert.Error(t, buf.Record(EndTarget{}), "recording before Begin")
	assert.Error(t, buf.End(), "ending before Begin")
	assert.Error(t, buf.UpdateSubmitted(), "submitting before recording ended")

	require.NoError(t, buf.Begin())
	assert.Error(t, buf.Begin(), "double Begin")
	assert.Error(t, buf.UpdateSubmitted(), "submitting while recording")

	require.NoError(t, buf.End())
	assert.Error(t, buf.Record(EndTarget{}), "recording after End")
}

func TestBufferPreservesCommandOrder(t *testing.T) {
	buf := NewBuffer()
	require.NoError(t, buf.Begin())

	recorded := []Command{
		SetKeyword{Keyword: metadata.SHADER_KEYWORD_KILL_ALPHA, Enabled: true},
		BeginTarget{Load: metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE, Store: metadata.ATTACHMENT_STORE_OPERATION_STORE},
		Copy{Source: metadata.NewRenderTargetHandle()},
		EndTarget{},
	}
	for _, cmd := range recorded {
		require.NoError(t, buf.Record(cmd))
	}
	require.NoError(t, buf.End())

	assert.Equal(t, recorded, buf.Commands())
}

func TestPoolReusesReleasedBuffers(t *testing.T) {
	pool := NewPool(1)
	assert.Equal(t, 1, pool.Free())

	buf := pool.Get()
	assert.Equal(t, 0, pool.Free())

	// An empty pool still hands out fresh buffers.
	extra := pool.Get()
	require.NotSame(t, buf, extra)

	require.NoError(t, buf.Begin())
	require.NoError(t, buf.Record(EndTarget{}))
	pool.Release(buf)
	pool.Release(extra)
	assert.Equal(t, 2, pool.Free())

	reused := pool.Get()
	assert.Same(t, buf, reused, "the free list is LIFO")
	assert.Equal(t, COMMAND_BUFFER_STATE_READY, reused.State())
	assert.Equal(t, 0, reused.Len())
}

func TestPoolIgnoresNilRelease(t *testing.T) {
	pool := NewPool(0)
	pool.Release(nil)
	assert.Equal(t, 0, pool.Free())
}
