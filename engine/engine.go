package engine

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
	"github.com/spaghettifunk/prisma/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	platform      *platform.Platform
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if e.gameInstance.ApplicationConfig.LogLevel != 0 {
		core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)
	}

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.Name,
		e.gameInstance.ApplicationConfig.StartPosX,
		e.gameInstance.ApplicationConfig.StartPosY,
		e.gameInstance.ApplicationConfig.StartWidth,
		e.gameInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}

	e.renderer = renderer.New(e.platform)
	if err := e.renderer.Initialize(e.gameInstance.ApplicationConfig.Name, e.width, e.height); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(e.renderer, e.width, e.height, e.gameInstance.ApplicationConfig.PresentationConfigPath)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		// Deliver events queued by watcher goroutines on the main loop.
		core.ProcessEvents()

		if !e.isSuspended {
			e.clock.Update()

			currentTime := e.clock.Elapsed()
			delta := currentTime - e.lastTime
			frameStartTime := e.platform.GetAbsoluteTime()

			if e.gameInstance.FnUpdate != nil {
				if err := e.gameInstance.FnUpdate(delta); err != nil {
					core.LogFatal("Game update failed, shutting down.")
					e.isRunning = false
					break
				}
			}

			packet := &metadata.RenderPacket{
				DeltaTime:    delta,
				ViewportRect: math.UnsetRect,
			}
			if e.gameInstance.FnRender != nil {
				if err := e.gameInstance.FnRender(packet, delta); err != nil {
					core.LogFatal("Game render failed, shutting down.")
					e.isRunning = false
					break
				}
			}

			if err := e.renderer.BeginFrame(delta); err != nil {
				if recoverableFrameError(err) {
					// A resize mid-flight; the next frame picks up
					// the recreated swapchain.
					core.LogDebug("frame skipped: %s", err.Error())
				} else {
					core.LogError("frame begin failed: %s", err.Error())
				}
			} else {
				if err := e.systemManager.DrawFrame(packet); err != nil {
					core.LogError("frame draw failed: %s", err.Error())
				}
				if err := e.renderer.EndFrame(delta); err != nil {
					core.LogError("frame end failed: %s", err.Error())
				}
			}

			frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
			core.MetricsUpdate(frameElapsedTime)

			// Input state copying happens after everything recorded
			// against this frame's input.
			core.InputUpdate(delta)

			e.lastTime = currentTime
		}
	}

	return e.shutdownInternal()
}

func (e *Engine) Shutdown() error {
	e.isRunning = false
	return nil
}

// recoverableFrameError reports whether a BeginFrame failure only means
// the swapchain is mid-recreation and this frame should be skipped.
func recoverableFrameError(err error) bool {
	return errors.Is(err, core.ErrSwapchainBooting)
}

func (e *Engine) shutdownInternal() error {
	e.currentStage = EngineStageShuttingDown
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == core.KEY_ESCAPE {
		// Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	}
}

func (e *Engine) onResized(context core.EventContext) {
	if context.Type != core.EVENT_CODE_RESIZED {
		return
	}
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		e.gameInstance.FnOnResize(width, height)
	}
	if err := e.renderer.OnResize(uint16(width), uint16(height)); err != nil {
		core.LogError(err.Error())
	}
	e.systemManager.OnWindowResize(width, height)
}
