package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	submitted []*Buffer
	err       error
}

func (rs *recordingSubmitter) SubmitCommands(buf *Buffer) error {
	if rs.err != nil {
		return rs.err
	}
	rs.submitted = append(rs.submitted, buf)
	return nil
}

func TestScopedSubmitsAndReleases(t *testing.T) {
	sub := &recordingSubmitter{}
	pool := NewPool(1)
	ctx := NewContext(sub, pool)

	err := ctx.Scoped(func(buf *Buffer) error {
		return buf.Record(EndTarget{})
	})
	require.NoError(t, err)
	assert.Len(t, sub.submitted, 1)
	assert.Equal(t, 1, pool.Free(), "buffer must return to the pool")
}

func TestScopedSkipSubmitIsNotAnError(t *testing.T) {
	sub := &recordingSubmitter{}
	pool := NewPool(1)
	ctx := NewContext(sub, pool)

	err := ctx.Scoped(func(buf *Buffer) error {
		return ErrSkipSubmit
	})
	require.NoError(t, err)
	assert.Empty(t, sub.submitted)
	assert.Equal(t, 1, pool.Free())
}

func TestScopedPropagatesRecordingErrors(t *testing.T) {
	sub := &recordingSubmitter{}
	pool := NewPool(1)
	ctx := NewContext(sub, pool)

	boom := errors.New("boom")
	err := ctx.Scoped(func(buf *Buffer) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, sub.submitted)
	assert.Equal(t, 1, pool.Free(), "buffer must return to the pool even on error")
}

func TestScopedPropagatesSubmitErrors(t *testing.T) {
	boom := errors.New("device lost")
	sub := &recordingSubmitter{err: boom}
	pool := NewPool(1)
	ctx := NewContext(sub, pool)

	err := ctx.Scoped(func(buf *Buffer) error {
		return buf.Record(EndTarget{})
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, pool.Free())
}

func TestScopedBufferIsRecordingInsideScope(t *testing.T) {
	ctx := NewContext(&recordingSubmitter{}, NewPool(1))

	err := ctx.Scoped(func(buf *Buffer) error {
		assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING, buf.State())
		return nil
	})
	require.NoError(t, err)
}
