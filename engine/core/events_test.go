package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRegisterAndFire(t *testing.T) {
	require.True(t, EventSystemInitialize())

	var got []EventContext
	id := EventRegister(EVENT_CODE_RESIZED, func(ctx EventContext) {
		got = append(got, ctx)
	})
	defer EventUnregister(EVENT_CODE_RESIZED, id)

	fired := EventFire(EventContext{
		Type: EVENT_CODE_RESIZED,
		Data: SystemEvent{WindowWidth: 800, WindowHeight: 600},
	})
	require.True(t, fired)
	require.Len(t, got, 1)

	event, ok := got[0].Data.(SystemEvent)
	require.True(t, ok)
	assert.Equal(t, uint32(800), event.WindowWidth)
	assert.Equal(t, uint32(600), event.WindowHeight)
}

func TestEventFireWithoutListeners(t *testing.T) {
	require.True(t, EventSystemInitialize())
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_MOUSE_WHEEL}))
}

func TestEventUnregister(t *testing.T) {
	require.True(t, EventSystemInitialize())

	calls := 0
	id := EventRegister(EVENT_CODE_KEY_RELEASED, func(EventContext) { calls++ })

	EventFire(EventContext{Type: EVENT_CODE_KEY_RELEASED})
	assert.Equal(t, 1, calls)

	assert.True(t, EventUnregister(EVENT_CODE_KEY_RELEASED, id))
	assert.False(t, EventUnregister(EVENT_CODE_KEY_RELEASED, id))

	EventFire(EventContext{Type: EVENT_CODE_KEY_RELEASED})
	assert.Equal(t, 1, calls)
}

func TestEventListenersFireInRegistrationOrder(t *testing.T) {
	require.True(t, EventSystemInitialize())

	var order []int
	first := EventRegister(EVENT_CODE_BUTTON_PRESSED, func(EventContext) { order = append(order, 1) })
	second := EventRegister(EVENT_CODE_BUTTON_PRESSED, func(EventContext) { order = append(order, 2) })
	defer EventUnregister(EVENT_CODE_BUTTON_PRESSED, first)
	defer EventUnregister(EVENT_CODE_BUTTON_PRESSED, second)

	EventFire(EventContext{Type: EVENT_CODE_BUTTON_PRESSED})
	assert.Equal(t, []int{1, 2}, order)
}

func TestEventEnqueueDeliversOnProcess(t *testing.T) {
	require.True(t, EventSystemInitialize())

	var got []EventContext
	id := EventRegister(EVENT_CODE_PRESENTATION_CONFIG_CHANGED, func(ctx EventContext) {
		got = append(got, ctx)
	})
	defer EventUnregister(EVENT_CODE_PRESENTATION_CONFIG_CHANGED, id)

	EventEnqueue(EventContext{Type: EVENT_CODE_PRESENTATION_CONFIG_CHANGED, Data: "a"})
	EventEnqueue(EventContext{Type: EVENT_CODE_PRESENTATION_CONFIG_CHANGED, Data: "b"})
	assert.Empty(t, got, "queued events wait for the main loop")

	ProcessEvents()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Data)
	assert.Equal(t, "b", got[1].Data)

	ProcessEvents()
	assert.Len(t, got, 2, "the queue drains fully")
}
