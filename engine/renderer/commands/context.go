package commands

import (
	"errors"
)

// ErrSkipSubmit signals that a recording scope decided to emit nothing
// this frame. The buffer is still returned to the pool; no submission
// happens and no error is propagated.
var ErrSkipSubmit = errors.New("recording abandoned, nothing to submit")

// Submitter consumes a fully recorded buffer. Implemented by the Vulkan
// backend and by capture backends in tests.
type Submitter interface {
	SubmitCommands(buf *Buffer) error
}

/**
 * @brief The execution context handed to a render stage. Carries the
 * submitter the recorded work goes to and the pool recording buffers
 * come from.
 */
type Context struct {
	Submitter Submitter
	Pool      *Pool
}

func NewContext(submitter Submitter, pool *Pool) *Context {
	return &Context{
		Submitter: submitter,
		Pool:      pool,
	}
}

/**
 * @brief Scoped records a buffer through fn and submits it. The buffer
 * is acquired from the pool, begun, and guaranteed to be released on
 * every exit path. fn returning ErrSkipSubmit abandons the recording
 * without submitting and without error.
 */
func (ctx *Context) Scoped(fn func(buf *Buffer) error) error {
	buf := ctx.Pool.Get()
	defer ctx.Pool.Release(buf)

	if err := buf.Begin(); err != nil {
		return err
	}
	if err := fn(buf); err != nil {
		if errors.Is(err, ErrSkipSubmit) {
			return nil
		}
		return err
	}
	if err := buf.End(); err != nil {
		return err
	}
	if err := ctx.Submitter.SubmitCommands(buf); err != nil {
		return err
	}
	return buf.UpdateSubmitted()
}
