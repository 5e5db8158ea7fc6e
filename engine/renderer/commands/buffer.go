package commands

import (
	"fmt"
)

type BufferState int

const (
	COMMAND_BUFFER_STATE_READY BufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
)

/**
 * @brief A CPU-recorded, append-only command list. The state machine
 * mirrors a GPU command buffer lifecycle: Ready -> Recording ->
 * RecordingEnded -> Submitted, back to Ready via Reset.
 */
type Buffer struct {
	commands []Command
	state    BufferState
}

func NewBuffer() *Buffer {
	return &Buffer{
		state: COMMAND_BUFFER_STATE_READY,
	}
}

func (b *Buffer) State() BufferState {
	return b.state
}

// Begin moves the buffer into the recording state.
func (b *Buffer) Begin() error {
	if b.state != COMMAND_BUFFER_STATE_READY {
		return fmt.Errorf("command buffer begin: buffer is in state %d, not ready", b.state)
	}
	b.state = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

// Record appends a command. Recording into a non-recording buffer is a
// programming error surfaced as a returned error.
func (b *Buffer) Record(cmd Command) error {
	if b.state != COMMAND_BUFFER_STATE_RECORDING {
		return fmt.Errorf("command buffer record: buffer is in state %d, not recording", b.state)
	}
	b.commands = append(b.commands, cmd)
	return nil
}

// End finishes recording.
func (b *Buffer) End() error {
	if b.state != COMMAND_BUFFER_STATE_RECORDING {
		return fmt.Errorf("command buffer end: buffer is in state %d, not recording", b.state)
	}
	b.state = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

// Commands returns the recorded sequence. Only valid once recording ended.
func (b *Buffer) Commands() []Command {
	return b.commands
}

func (b *Buffer) Len() int {
	return len(b.commands)
}

// UpdateSubmitted marks the buffer as handed to a backend.
func (b *Buffer) UpdateSubmitted() error {
	if b.state != COMMAND_BUFFER_STATE_RECORDING_ENDED {
		return fmt.Errorf("command buffer submit: buffer is in state %d, recording has not ended", b.state)
	}
	b.state = COMMAND_BUFFER_STATE_SUBMITTED
	return nil
}

// Reset clears the recorded commands and readies the buffer for reuse.
func (b *Buffer) Reset() {
	b.commands = b.commands[:0]
	b.state = COMMAND_BUFFER_STATE_READY
}
