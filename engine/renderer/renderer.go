package renderer

import (
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
	"github.com/spaghettifunk/prisma/engine/renderer/vulkan"
)

const commandPoolSize = 8

// Renderer is the frontend: it owns the backend, the command buffer
// pool and the execution context handed to render stages.
type Renderer struct {
	backend Backend
	pool    *commands.Pool
	context *commands.Context
}

func New(p *platform.Platform) *Renderer {
	r := &Renderer{
		backend: vulkan.New(p),
		pool:    commands.NewPool(commandPoolSize),
	}
	r.context = commands.NewContext(r.backend, r.pool)
	return r
}

// NewWithBackend wires a custom backend, primarily for tests.
func NewWithBackend(backend Backend) *Renderer {
	r := &Renderer{
		backend: backend,
		pool:    commands.NewPool(commandPoolSize),
	}
	r.context = commands.NewContext(r.backend, r.pool)
	return r
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

// Context returns the execution context render stages record into.
func (r *Renderer) Context() *commands.Context {
	return r.context
}

func (r *Renderer) GPUClass() metadata.GPUClass {
	return r.backend.GPUClass()
}

func (r *Renderer) CreateRenderTarget(descriptor metadata.RenderTargetDescriptor) (metadata.RenderTargetHandle, error) {
	return r.backend.CreateRenderTarget(descriptor)
}

func (r *Renderer) DestroyRenderTarget(handle metadata.RenderTargetHandle) error {
	return r.backend.DestroyRenderTarget(handle)
}

// SetDestination routes subsequent stage submissions to the given
// target, or to the backbuffer when the handle is nil.
func (r *Renderer) SetDestination(handle metadata.RenderTargetHandle) error {
	return r.backend.SetDestination(handle)
}

func (r *Renderer) RegisterMaterial(material *metadata.Material) error {
	return r.backend.RegisterMaterial(material)
}

func (r *Renderer) BeginFrame(deltaTime float64) error {
	return r.backend.BeginFrame(deltaTime)
}

func (r *Renderer) EndFrame(deltaTime float64) error {
	return r.backend.EndFrame(deltaTime)
}

func (r *Renderer) OnResize(width, height uint16) error {
	return r.backend.Resized(width, height)
}
