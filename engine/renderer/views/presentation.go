package views

import (
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief The final presentation blit stage. Copies the frame's offscreen
 * colour buffer into the backbuffer, applying debug overlays, colour
 * space conversion and alpha elimination on the way.
 *
 * The stage holds no cross-frame state: every field below is overwritten
 * by Configure each frame.
 */
type PresentationView struct {
	// The blit material supplied at construction. May legitimately be
	// missing; Execute then logs and emits nothing.
	material *metadata.Material
	// Resolved once at backend initialization.
	gpuClass metadata.GPUClass

	// Refreshed by Configure every frame.
	source           metadata.RenderTargetHandle
	dimension        metadata.TargetDimension
	clearDestination bool
	isTileBasedGPU   bool
	viewportRect     math.Rect
}

func NewPresentationView(material *metadata.Material, gpuClass metadata.GPUClass) *PresentationView {
	return &PresentationView{
		material:     material,
		gpuClass:     gpuClass,
		viewportRect: math.UnsetRect,
	}
}

/**
 * @brief Configure stores the frame's blit parameters. No side effects
 * beyond internal state; constant time.
 */
func (v *PresentationView) Configure(config *metadata.StageConfig) {
	v.source = config.Source
	v.dimension = config.Descriptor.Dimension
	v.clearDestination = config.ClearDestination
	v.isTileBasedGPU = v.gpuClass.IsTileBased()
	v.viewportRect = config.ViewportRect
}

/**
 * @brief Execute records the presentation blit into a pooled command
 * buffer and submits it.
 *
 * Two branches share the keyword setup:
 *   - fast path: a direct full-target copy, taken for stereo, scene-view
 *     or default-viewport frames with no overlay active. The destination
 *     is never loaded; on tile-based GPUs it is additionally cleared,
 *     which costs nothing there and avoids tile memory loads.
 *   - general path: binds the source as a texture and draws a
 *     full-screen triangle with the blit material, honoring the
 *     configured viewport rect and clear request.
 */
func (v *PresentationView) Execute(ctx *commands.Context, frame *metadata.FrameState) error {
	return ctx.Scoped(func(buf *commands.Buffer) error {
		if !v.material.IsValid() {
			core.LogError("presentation view: blit material is missing, skipping the presentation blit for this frame")
			return commands.ErrSkipSubmit
		}

		cfg := frame.Presentation

		// Keyword state strictly mirrors the config: each switch is
		// enabled iff its condition holds, so no state leaks across
		// frames or between overlay modes.
		highlightInvalid := cfg.Overlay == metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE
		highlightRange := cfg.Overlay == metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE

		if err := buf.Record(commands.SetKeyword{Keyword: metadata.SHADER_KEYWORD_HIGHLIGHT_INVALID_VALUES, Enabled: highlightInvalid}); err != nil {
			return err
		}
		if err := buf.Record(commands.SetKeyword{Keyword: metadata.SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE, Enabled: highlightRange}); err != nil {
			return err
		}
		if highlightRange {
			// Both bounds are opaque pass-through values.
			if err := buf.Record(commands.SetKeywordParams{
				Keyword: metadata.SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE,
				Min:     cfg.RangeMin,
				Max:     cfg.RangeMax,
			}); err != nil {
				return err
			}
			if err := buf.Record(commands.SetKeyword{Keyword: metadata.SHADER_KEYWORD_HIGHLIGHT_ALPHA_OUTSIDE_RANGE, Enabled: cfg.HighlightAlpha}); err != nil {
				return err
			}
		}
		if err := buf.Record(commands.SetKeyword{Keyword: metadata.SHADER_KEYWORD_LINEAR_TO_SRGB, Enabled: cfg.ConvertToSRGB}); err != nil {
			return err
		}
		if err := buf.Record(commands.SetKeyword{Keyword: metadata.SHADER_KEYWORD_KILL_ALPHA, Enabled: cfg.KillAlpha}); err != nil {
			return err
		}

		fastPath := (frame.Stereo || frame.SceneView || frame.DefaultViewport) &&
			cfg.Overlay == metadata.OVERLAY_MODE_NONE
		if fastPath {
			return v.recordFastPath(buf)
		}
		return v.recordGeneralPath(buf, frame)
	})
}

// recordFastPath copies the source straight into the backbuffer. Prior
// destination contents are never needed, so the load action is always
// "don't care".
func (v *PresentationView) recordFastPath(buf *commands.Buffer) error {
	if err := buf.Record(commands.BeginTarget{
		Load:  metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE,
		Store: metadata.ATTACHMENT_STORE_OPERATION_STORE,
	}); err != nil {
		return err
	}
	if v.isTileBasedGPU {
		// Free on tile-based hardware, and keeps the tiles from being
		// loaded back in.
		if err := buf.Record(commands.ClearTarget{Colour: math.NewVec4Black()}); err != nil {
			return err
		}
	}
	if err := buf.Record(commands.Copy{Source: v.source}); err != nil {
		return err
	}
	return buf.Record(commands.EndTarget{})
}

// recordGeneralPath draws a full-screen triangle sampling the source,
// restricted to the configured viewport. Needed whenever per-pixel
// shader logic or sub-rectangle placement is requested.
func (v *PresentationView) recordGeneralPath(buf *commands.Buffer, frame *metadata.FrameState) error {
	if err := buf.Record(commands.BindSourceTexture{
		Source:    v.source,
		Dimension: v.dimension,
	}); err != nil {
		return err
	}

	loadOperation := metadata.ATTACHMENT_LOAD_OPERATION_LOAD
	if v.clearDestination {
		loadOperation = metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE
	}
	if err := buf.Record(commands.BeginTarget{
		Load:  loadOperation,
		Store: metadata.ATTACHMENT_STORE_OPERATION_STORE,
	}); err != nil {
		return err
	}
	if v.clearDestination {
		if err := buf.Record(commands.ClearTarget{Colour: math.NewVec4Black()}); err != nil {
			return err
		}
	}

	// The triangle is drawn in clip space; drop the camera transform and
	// restore it once the draw is recorded.
	identity := math.NewMat4Identity()
	if err := buf.Record(commands.SetViewProjection{View: identity, Projection: identity}); err != nil {
		return err
	}

	viewport := v.viewportRect
	if viewport.IsUnset() {
		viewport = frame.PixelRect
	}
	if err := buf.Record(commands.SetViewport{Rect: viewport}); err != nil {
		return err
	}

	if err := buf.Record(commands.Draw{
		Material:    v.material.Name,
		VertexCount: 3,
	}); err != nil {
		return err
	}

	if err := buf.Record(commands.SetViewProjection{View: frame.View, Projection: frame.Projection}); err != nil {
		return err
	}
	return buf.Record(commands.EndTarget{})
}
