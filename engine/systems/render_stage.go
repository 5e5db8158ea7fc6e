package systems

import (
	"fmt"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/renderer/components"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/** @brief The configuration for the render stage system. */
type RenderStageSystemConfig struct {
	/** @brief The maximum number of stages that can be registered with the system. */
	MaxStageCount uint16
}

type registeredStage struct {
	ID    uint16
	Name  string
	Stage renderer.RenderStage
	// The buffer this stage renders into, consumed by the next stage.
	Output           metadata.RenderTargetHandle
	OutputDescriptor metadata.RenderTargetDescriptor
}

/**
 * @brief Owns the ordered list of render stages and drives them each
 * frame. Stages execute in registration order; each stage reads the
 * buffer produced by the stage before it.
 */
type RenderStageSystem struct {
	Lookup           map[string]uint16
	MaxStageCount    uint32
	RegisteredStages []*registeredStage
	stageCount       uint16

	framebufferWidth  uint32
	framebufferHeight uint32

	// subsystems
	renderer           *renderer.Renderer
	cameraSystem       *CameraSystem
	presentationSystem *PresentationSystem
}

func NewRenderStageSystem(config RenderStageSystemConfig, r *renderer.Renderer, cs *CameraSystem, ps *PresentationSystem) (*RenderStageSystem, error) {
	if config.MaxStageCount == 0 {
		err := fmt.Errorf("func NewRenderStageSystem - config.MaxStageCount must be > 0")
		return nil, err
	}
	rss := &RenderStageSystem{
		MaxStageCount:      uint32(config.MaxStageCount),
		Lookup:             make(map[string]uint16, config.MaxStageCount),
		RegisteredStages:   make([]*registeredStage, config.MaxStageCount),
		renderer:           r,
		cameraSystem:       cs,
		presentationSystem: ps,
	}
	// Fill the array with invalid entries.
	for i := uint32(0); i < rss.MaxStageCount; i++ {
		rss.RegisteredStages[i] = &registeredStage{
			ID: metadata.InvalidIDUint16,
		}
	}
	return rss, nil
}

func (rss *RenderStageSystem) Shutdown() error {
	for i := uint32(0); i < rss.MaxStageCount; i++ {
		stage := rss.RegisteredStages[i]
		if stage.ID != metadata.InvalidIDUint16 {
			if !stage.Output.IsNil() {
				if err := rss.renderer.DestroyRenderTarget(stage.Output); err != nil {
					core.LogError("failed to destroy render target for stage '%s'", stage.Name)
					return err
				}
			}
			stage.ID = metadata.InvalidIDUint16
		}
	}
	return nil
}

/**
 * @brief Registers a stage under the given name, appended to the end of
 * the frame order. If the stage produces an intermediate buffer, it is
 * created here from the descriptor.
 */
func (rss *RenderStageSystem) Register(name string, stage renderer.RenderStage, output *metadata.RenderTargetDescriptor) error {
	if name == "" {
		err := fmt.Errorf("render_stage_system_register: name is required")
		return err
	}
	if id, ok := rss.Lookup[name]; ok && id != metadata.InvalidIDUint16 {
		err := fmt.Errorf("render_stage_system_register - A stage named '%s' already exists. A new one will not be created", name)
		return err
	}
	if uint32(rss.stageCount) >= rss.MaxStageCount {
		err := fmt.Errorf("render_stage_system_register - No available space for a new stage. Change system config to account for more")
		return err
	}

	id := rss.stageCount
	entry := rss.RegisteredStages[id]
	entry.ID = id
	entry.Name = name
	entry.Stage = stage
	entry.Output = metadata.NilRenderTargetHandle

	if output != nil {
		handle, err := rss.renderer.CreateRenderTarget(*output)
		if err != nil {
			core.LogError("failed to create intermediate render target for stage '%s'", name)
			return err
		}
		entry.Output = handle
		entry.OutputDescriptor = *output
	}

	rss.Lookup[name] = id
	rss.stageCount++

	return nil
}

/**
 * @brief Obtains the stage registered under the given name, or nil.
 */
func (rss *RenderStageSystem) Get(name string) renderer.RenderStage {
	if id, ok := rss.Lookup[name]; ok && id != metadata.InvalidIDUint16 {
		return rss.RegisteredStages[id].Stage
	}
	return nil
}

/**
 * @brief Called when the owner of the stages (i.e. the window) is resized.
 *
 * @param width The new width in pixels.
 * @param height The new height in pixels.
 */
func (rss *RenderStageSystem) OnWindowResize(width, height uint32) {
	if width == rss.framebufferWidth && height == rss.framebufferHeight {
		return
	}
	rss.framebufferWidth = width
	rss.framebufferHeight = height

	rss.cameraSystem.OnResize(width, height)

	// Recreate intermediate buffers at the new size.
	for i := uint16(0); i < rss.stageCount; i++ {
		stage := rss.RegisteredStages[i]
		if stage.Output.IsNil() {
			continue
		}
		if err := rss.renderer.DestroyRenderTarget(stage.Output); err != nil {
			core.LogError("failed to destroy render target for stage '%s' on resize", stage.Name)
			continue
		}
		stage.OutputDescriptor.Width = width
		stage.OutputDescriptor.Height = height
		handle, err := rss.renderer.CreateRenderTarget(stage.OutputDescriptor)
		if err != nil {
			core.LogError("failed to recreate render target for stage '%s' on resize", stage.Name)
			stage.Output = metadata.NilRenderTargetHandle
			continue
		}
		stage.Output = handle
	}
}

/**
 * @brief Drives every registered stage for one frame. The per-frame
 * state is assembled once from the active camera and the presentation
 * config snapshot; each stage is configured with the buffer produced by
 * the previous stage and then executed.
 *
 * @param packet The frame parameters generated by the application.
 * @return nil on success; the first stage error otherwise.
 */
func (rss *RenderStageSystem) DrawFrame(packet *metadata.RenderPacket) error {
	camera, err := rss.cameraSystem.Acquire(packet.CameraName)
	if err != nil {
		return err
	}
	if packet.CameraName != "" && packet.CameraName != components.DEFAULT_CAMERA_NAME {
		defer rss.cameraSystem.Release(packet.CameraName)
	}

	// An explicit packet viewport restricts the blit to a sub-rect, so
	// the frame can never classify as full-viewport regardless of the
	// camera's own rect.
	frame := &metadata.FrameState{
		Stereo:    packet.Stereo,
		SceneView: packet.SceneView,
		DefaultViewport: packet.ViewportRect.IsUnset() &&
			camera.IsDefaultViewport(rss.framebufferWidth, rss.framebufferHeight),
		View:            camera.GetView(),
		Projection:      camera.GetProjection(),
		PixelRect:       camera.GetPixelRect(),
		Presentation:    rss.presentationSystem.Snapshot(),
	}

	// Each stage consumes the previous stage's output buffer.
	source := metadata.NilRenderTargetHandle
	descriptor := metadata.RenderTargetDescriptor{}

	ctx := rss.renderer.Context()
	for i := uint16(0); i < rss.stageCount; i++ {
		stage := rss.RegisteredStages[i]

		// A producing stage is configured with its own target's shape;
		// a consuming stage with the shape of the buffer it reads.
		stageDescriptor := descriptor
		if !stage.Output.IsNil() {
			stageDescriptor = stage.OutputDescriptor
		}

		if err := rss.renderer.SetDestination(stage.Output); err != nil {
			core.LogError("render stage '%s' has no usable destination: %s", stage.Name, err.Error())
			return err
		}

		stage.Stage.Configure(&metadata.StageConfig{
			Descriptor:       stageDescriptor,
			Source:           source,
			ClearDestination: packet.ClearDestination,
			ViewportRect:     packet.ViewportRect,
		})
		if err := stage.Stage.Execute(ctx, frame); err != nil {
			core.LogError("render stage '%s' failed: %s", stage.Name, err.Error())
			return err
		}

		if !stage.Output.IsNil() {
			source = stage.Output
			descriptor = stage.OutputDescriptor
		}
	}

	return nil
}
