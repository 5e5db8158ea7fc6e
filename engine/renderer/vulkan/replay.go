package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief Per-submission replay state. Keyword and matrix commands only
 * mutate this; the GPU sees them at the next draw as push constants.
 */
type replayState struct {
	flags          uint32
	rangeMin       float32
	rangeMax       float32
	viewProjection math.Mat4
	source         *VulkanRenderTarget

	pass        *VulkanRenderpass
	framebuffer vk.Framebuffer
	passWidth   uint32
	passHeight  uint32
	passActive  bool
	// Set when a Copy ended the pass early; EndTarget becomes a no-op.
	blitted bool
}

// replay walks a recorded buffer and records the equivalent Vulkan
// commands into the current frame's command buffer.
func (vr *VulkanRenderer) replay(buf *commands.Buffer) error {
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	state := &replayState{
		viewProjection: math.NewMat4Identity(),
	}

	for _, cmd := range buf.Commands() {
		switch c := cmd.(type) {
		case commands.SetKeyword:
			bit := uint32(1) << uint32(c.Keyword)
			if c.Enabled {
				state.flags |= bit
			} else {
				state.flags &^= bit
			}

		case commands.SetKeywordParams:
			state.rangeMin = c.Min
			state.rangeMax = c.Max

		case commands.SetViewProjection:
			state.viewProjection = c.Projection.Mul(c.View)

		case commands.BindSourceTexture:
			target, ok := vr.context.RenderTargets[c.Source]
			if !ok {
				return fmt.Errorf("bind source: unknown render target %s", c.Source.String())
			}
			state.source = target

		case commands.BeginTarget:
			if err := vr.replayBeginTarget(commandBuffer, state, c); err != nil {
				return err
			}

		case commands.ClearTarget:
			if !state.passActive {
				return fmt.Errorf("clear outside of an active target")
			}
			replayClear(commandBuffer, state, c.Colour)

		case commands.SetViewport:
			if !state.passActive {
				return fmt.Errorf("viewport outside of an active target")
			}
			replaySetViewport(commandBuffer, c.Rect)

		case commands.Draw:
			if err := vr.replayDraw(commandBuffer, state, c); err != nil {
				return err
			}

		case commands.Copy:
			if err := vr.replayCopy(commandBuffer, state, c); err != nil {
				return err
			}

		case commands.EndTarget:
			if !state.passActive {
				return fmt.Errorf("end outside of an active target")
			}
			if !state.blitted {
				state.pass.End(commandBuffer)
			}
			state.passActive = false
			state.blitted = false

		default:
			return fmt.Errorf("unknown command %T", cmd)
		}
	}

	if state.passActive {
		return fmt.Errorf("submission left a target open")
	}
	return nil
}

func (vr *VulkanRenderer) replayBeginTarget(commandBuffer *VulkanCommandBuffer, state *replayState, c commands.BeginTarget) error {
	if state.passActive {
		return fmt.Errorf("begin inside an active target")
	}

	if vr.destination.IsNil() {
		// Backbuffer. One renderpass variant per load op; the
		// framebuffers are compatible with both.
		state.pass = vr.context.BackbufferDontCarePass
		if c.Load == metadata.ATTACHMENT_LOAD_OPERATION_LOAD {
			state.pass = vr.context.BackbufferLoadPass
		}
		state.framebuffer = vr.context.Swapchain.Framebuffers[vr.context.ImageIndex]
		state.passWidth = vr.context.FramebufferWidth
		state.passHeight = vr.context.FramebufferHeight
	} else {
		target, ok := vr.context.RenderTargets[vr.destination]
		if !ok {
			return fmt.Errorf("begin target: unknown render target %s", vr.destination.String())
		}
		format, err := targetFormat(target.Descriptor.Format)
		if err != nil {
			return err
		}
		pass, err := targetRenderpass(vr.context, format, c.Load)
		if err != nil {
			return err
		}
		state.pass = pass
		state.framebuffer = target.Framebuffer
		state.passWidth = target.Descriptor.Width
		state.passHeight = target.Descriptor.Height
	}

	state.pass.Begin(commandBuffer, state.framebuffer, state.passWidth, state.passHeight)
	state.passActive = true
	state.blitted = false

	// Dynamic state defaults to the full target.
	replaySetViewport(commandBuffer, math.Rect{X: 0, Y: 0, W: float32(state.passWidth), H: float32(state.passHeight)})
	return nil
}

func replayClear(commandBuffer *VulkanCommandBuffer, state *replayState, colour math.Vec4) {
	var clearValue vk.ClearValue
	clearValue.SetColor([]float32{colour.X, colour.Y, colour.Z, colour.W})

	attachment := vk.ClearAttachment{
		AspectMask:      vk.ImageAspectFlags(vk.ImageAspectColorBit),
		ColorAttachment: 0,
		ClearValue:      clearValue,
	}
	rect := vk.ClearRect{
		Rect: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: state.passWidth, Height: state.passHeight},
		},
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
	vk.CmdClearAttachments(commandBuffer.Handle, 1, []vk.ClearAttachment{attachment}, 1, []vk.ClearRect{rect})
}

func replaySetViewport(commandBuffer *VulkanCommandBuffer, rect math.Rect) {
	viewport := vk.Viewport{
		X:        rect.X,
		Y:        rect.Y,
		Width:    rect.W,
		Height:   rect.H,
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})

	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: int32(rect.X), Y: int32(rect.Y)},
		Extent: vk.Extent2D{Width: uint32(rect.W), Height: uint32(rect.H)},
	}
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})
}

func (vr *VulkanRenderer) replayDraw(commandBuffer *VulkanCommandBuffer, state *replayState, c commands.Draw) error {
	if !state.passActive {
		return fmt.Errorf("draw outside of an active target")
	}
	material, ok := vr.context.Materials[c.Material]
	if !ok {
		return fmt.Errorf("draw references unregistered material '%s'", c.Material)
	}

	pipeline, err := vr.materialPipeline(material, state.pass)
	if err != nil {
		return err
	}
	pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)

	if state.source != nil {
		vk.CmdBindDescriptorSets(
			commandBuffer.Handle,
			vk.PipelineBindPointGraphics,
			pipeline.PipelineLayout,
			0,
			1,
			[]vk.DescriptorSet{state.source.DescriptorSet},
			0,
			nil,
		)
	}

	pushConstants := blitPushConstants{
		ViewProjection: state.viewProjection,
		Params:         [4]float32{state.rangeMin, state.rangeMax, 0, 0},
		Flags:          [4]uint32{state.flags, 0, 0, 0},
	}
	vk.CmdPushConstants(
		commandBuffer.Handle,
		pipeline.PipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit)|vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		0,
		uint32(unsafe.Sizeof(pushConstants)),
		unsafe.Pointer(&pushConstants),
	)

	vk.CmdDraw(commandBuffer.Handle, c.VertexCount, 1, 0, 0)
	return nil
}

/**
 * @brief Replays a full-target copy as an image blit. Render passes
 * cannot contain transfer operations, so the active pass is ended
 * early, the blit recorded between layout transitions, and the
 * closing EndTarget suppressed.
 */
func (vr *VulkanRenderer) replayCopy(commandBuffer *VulkanCommandBuffer, state *replayState, c commands.Copy) error {
	if !state.passActive {
		return fmt.Errorf("copy outside of an active target")
	}
	source, ok := vr.context.RenderTargets[c.Source]
	if !ok {
		return fmt.Errorf("copy: unknown render target %s", c.Source.String())
	}

	state.pass.End(commandBuffer)
	state.blitted = true

	destImage, destLayout, err := vr.destinationImage()
	if err != nil {
		return err
	}

	// Source was left shader-readable by its producing pass.
	ImageTransitionLayout(commandBuffer, source.Image.Handle,
		vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutTransferSrcOptimal,
		vk.AccessFlags(vk.AccessShaderReadBit), vk.AccessFlags(vk.AccessTransferReadBit),
		vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit))
	ImageTransitionLayout(commandBuffer, destImage,
		destLayout, vk.ImageLayoutTransferDstOptimal,
		vk.AccessFlags(vk.AccessMemoryReadBit), vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit))

	subresource := vk.ImageSubresourceLayers{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		MipLevel:       0,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
	region := vk.ImageBlit{
		SrcSubresource: subresource,
		SrcOffsets: [2]vk.Offset3D{
			{X: 0, Y: 0, Z: 0},
			{X: int32(source.Descriptor.Width), Y: int32(source.Descriptor.Height), Z: 1},
		},
		DstSubresource: subresource,
		DstOffsets: [2]vk.Offset3D{
			{X: 0, Y: 0, Z: 0},
			{X: int32(state.passWidth), Y: int32(state.passHeight), Z: 1},
		},
	}

	vk.CmdBlitImage(
		commandBuffer.Handle,
		source.Image.Handle, vk.ImageLayoutTransferSrcOptimal,
		destImage, vk.ImageLayoutTransferDstOptimal,
		1, []vk.ImageBlit{region},
		vk.FilterLinear,
	)

	ImageTransitionLayout(commandBuffer, source.Image.Handle,
		vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
		vk.AccessFlags(vk.AccessTransferReadBit), vk.AccessFlags(vk.AccessShaderReadBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit))
	ImageTransitionLayout(commandBuffer, destImage,
		vk.ImageLayoutTransferDstOptimal, destLayout,
		vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessMemoryReadBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit))

	return nil
}

// destinationImage resolves the image and steady-state layout of the
// active destination.
func (vr *VulkanRenderer) destinationImage() (vk.Image, vk.ImageLayout, error) {
	if vr.destination.IsNil() {
		return vr.context.Swapchain.Images[vr.context.ImageIndex], vk.ImageLayoutPresentSrc, nil
	}
	target, ok := vr.context.RenderTargets[vr.destination]
	if !ok {
		return vk.NullImage, vk.ImageLayoutUndefined, fmt.Errorf("unknown render target %s", vr.destination.String())
	}
	return target.Image.Handle, vk.ImageLayoutShaderReadOnlyOptimal, nil
}

func (vr *VulkanRenderer) materialPipeline(material *VulkanMaterial, pass *VulkanRenderpass) (*VulkanPipeline, error) {
	if pipeline, ok := material.Pipelines[pass.Handle]; ok {
		return pipeline, nil
	}
	pipeline, err := NewGraphicsPipeline(vr.context, pass, material)
	if err != nil {
		return nil, err
	}
	material.Pipelines[pass.Handle] = pipeline
	return pipeline, nil
}
