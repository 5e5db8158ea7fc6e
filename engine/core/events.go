package core

import (
	"sync"

	"github.com/spaghettifunk/prisma/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type EventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel scrolled.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS.
	EVENT_CODE_RESIZED EventCode = 0x08
	// The presentation config store reloaded its backing file.
	EVENT_CODE_PRESENTATION_CONFIG_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

// EventContext is the payload fired to listeners. Data holds a
// code-specific event struct (KeyEvent, MouseEvent, SystemEvent, ...).
type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type OnEventFn func(context EventContext)

type registeredEvent struct {
	id       uint32
	callback OnEventFn
}

// Deferred events fired from other goroutines (asset watchers, config
// reloads) are queued here and drained on the main loop by ProcessEvents.
const maxQueuedEvents = 512

type eventSystemState struct {
	registered map[EventCode][]registeredEvent
	nextID     uint32

	queueMutex sync.Mutex
	queue      *containers.RingQueue[EventContext]
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[EventCode][]registeredEvent),
			queue:      containers.NewRingQueue[EventContext](maxQueuedEvents),
		}
	})
	return true
}

func EventSystemShutdown() error {
	if eventState != nil {
		eventState.registered = make(map[EventCode][]registeredEvent)
	}
	return nil
}

// EventRegister subscribes fn to the given code and returns a listener id
// usable with EventUnregister. Listeners are invoked in registration order.
func EventRegister(code EventCode, fn OnEventFn) uint32 {
	if eventState == nil {
		return 0
	}
	eventState.nextID++
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{
		id:       eventState.nextID,
		callback: fn,
	})
	return eventState.nextID
}

// EventUnregister removes the listener with the given id from the code.
// Returns false when no such registration exists.
func EventUnregister(code EventCode, id uint32) bool {
	if eventState == nil {
		return false
	}
	listeners := eventState.registered[code]
	for i := range listeners {
		if listeners[i].id == id {
			eventState.registered[code] = append(listeners[:i], listeners[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire dispatches the context to all listeners of its code, in
// registration order, on the calling goroutine.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	listeners := eventState.registered[context.Type]
	if len(listeners) == 0 {
		return false
	}
	for _, l := range listeners {
		l.callback(context)
	}
	return true
}

// EventEnqueue queues an event from any goroutine for later dispatch on
// the main loop. Events are dropped (with a log) when the queue is full.
func EventEnqueue(context EventContext) {
	if eventState == nil {
		return
	}
	eventState.queueMutex.Lock()
	defer eventState.queueMutex.Unlock()
	if err := eventState.queue.Enqueue(context); err != nil {
		LogWarn("event queue full, dropping event with code %d", context.Type)
	}
}

// ProcessEvents drains the deferred queue, firing each event in order.
// Must be called from the main loop, once per frame.
func ProcessEvents() {
	if eventState == nil {
		return
	}
	for {
		eventState.queueMutex.Lock()
		context, err := eventState.queue.Dequeue()
		eventState.queueMutex.Unlock()
		if err != nil {
			return
		}
		EventFire(context)
	}
}
