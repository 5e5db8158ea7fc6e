package renderer

import (
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

// Backend is the renderer API boundary. The Vulkan backend is the only
// production implementation; tests substitute capture backends.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint16) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	// SubmitCommands replays a recorded buffer into the current frame.
	SubmitCommands(buf *commands.Buffer) error
	CreateRenderTarget(descriptor metadata.RenderTargetDescriptor) (metadata.RenderTargetHandle, error)
	DestroyRenderTarget(handle metadata.RenderTargetHandle) error
	// SetDestination selects the target subsequent submissions render
	// into. The nil handle selects the backbuffer.
	SetDestination(handle metadata.RenderTargetHandle) error
	// RegisterMaterial makes a material's shader stages available for
	// pipeline creation. Draws referencing an unregistered material fail.
	RegisterMaterial(material *metadata.Material) error
	// GPUClass reports the classification resolved at device selection.
	GPUClass() metadata.GPUClass
}

/**
 * @brief The contract every render stage implements. The render stage
 * system calls Configure then Execute, in that order, exactly once per
 * frame per stage.
 */
type RenderStage interface {
	Configure(config *metadata.StageConfig)
	Execute(ctx *commands.Context, frame *metadata.FrameState) error
}
