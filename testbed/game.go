package testbed

import (
	"github.com/spaghettifunk/prisma/engine"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief Interactive state for the test application. Number keys switch
 * the presentation debug overlay, S toggles a split-screen viewport and
 * C toggles clearing the backbuffer before the blit.
 */
type gameState struct {
	splitScreen      bool
	clearDestination bool
	framebufferW     uint32
	framebufferH     uint32
}

func NewTestGame() *engine.Game {
	g := &engine.Game{
		ApplicationConfig: &engine.ApplicationConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Name:        "Prisma Testbed",
		},
		State: &gameState{},
	}
	g.FnInitialize = func() error { return initialize(g) }
	g.FnUpdate = func(deltaTime float64) error { return update(g, deltaTime) }
	g.FnRender = func(packet *metadata.RenderPacket, deltaTime float64) error { return render(g, packet, deltaTime) }
	g.FnOnResize = func(width, height uint32) error { return onResize(g, width, height) }
	return g
}

func initialize(g *engine.Game) error {
	core.LogInfo("Testbed initialized. Keys: 1/2/3 overlay, S split-screen, C clear.")
	return nil
}

func keyPressed(key core.KeyCode) bool {
	return core.InputIsKeyDown(key) && !core.InputWasKeyDown(key)
}

func update(g *engine.Game, deltaTime float64) error {
	state := g.State.(*gameState)
	presentation := g.SystemManager.PresentationSystem()

	switch {
	case keyPressed(core.KEY_1):
		core.LogInfo("Overlay: none")
		presentation.SetOverlay(metadata.OVERLAY_MODE_NONE)
	case keyPressed(core.KEY_2):
		core.LogInfo("Overlay: highlight NaN/Inf/negative")
		presentation.SetOverlay(metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE)
	case keyPressed(core.KEY_3):
		core.LogInfo("Overlay: highlight outside range")
		presentation.SetOverlay(metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE)
		presentation.SetRange(0.0, 1.0)
	case keyPressed(core.KEY_S):
		state.splitScreen = !state.splitScreen
		core.LogInfo("Split-screen: %t", state.splitScreen)
	case keyPressed(core.KEY_C):
		state.clearDestination = !state.clearDestination
		core.LogInfo("Clear destination: %t", state.clearDestination)
	}

	return nil
}

func render(g *engine.Game, packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)

	packet.ClearDestination = state.clearDestination
	if state.splitScreen && state.framebufferW > 0 {
		// Present into the left half of the window.
		packet.ViewportRect = math.Rect{
			X: 0,
			Y: 0,
			W: float32(state.framebufferW) / 2.0,
			H: float32(state.framebufferH),
		}
		// A partial-window blit must not discard the rest.
		packet.ClearDestination = false
	}
	return nil
}

func onResize(g *engine.Game, width, height uint32) error {
	state := g.State.(*gameState)
	state.framebufferW = width
	state.framebufferH = height
	return nil
}
