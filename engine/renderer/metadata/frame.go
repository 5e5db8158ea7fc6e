package metadata

import (
	"github.com/spaghettifunk/prisma/engine/math"
)

/** @brief The active presentation-time debug visualization. */
type OverlayMode uint32

const (
	// No overlay; the presentation blit is a plain copy.
	OVERLAY_MODE_NONE OverlayMode = 0x0
	// Highlight NaN, Inf and negative pixel values.
	OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE OverlayMode = 0x1
	// Highlight pixel values outside the configured numeric range.
	OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE OverlayMode = 0x2
)

func (m OverlayMode) String() string {
	switch m {
	case OVERLAY_MODE_NONE:
		return "none"
	case OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE:
		return "highlight_nan_inf_negative"
	case OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE:
		return "highlight_outside_range"
	}
	return "unknown"
}

/**
 * @brief A value snapshot of the presentation configuration, owned by the
 * presentation config system and handed to the blit stage each frame.
 * The stage only ever reads it.
 *
 * RangeMin and RangeMax are two opaque numeric bounds passed through to
 * the shader unchanged.
 */
type PresentationConfig struct {
	Overlay        OverlayMode
	RangeMin       float32
	RangeMax       float32
	HighlightAlpha bool
	// The destination expects sRGB-encoded output.
	ConvertToSRGB bool
	// The destination must receive a fully opaque alpha channel.
	KillAlpha bool
}

/**
 * @brief Per-frame read-only input to a render stage's Execute, assembled
 * by the render stage system. Carries the camera/display classification
 * and the presentation config snapshot.
 */
type FrameState struct {
	// Frame targets a stereo display.
	Stereo bool
	// Frame is rendered by a scene/editor preview camera.
	SceneView bool
	// The camera's pixel rect is the unmodified full framebuffer.
	DefaultViewport bool

	View       math.Mat4
	Projection math.Mat4
	// The camera's full pixel rect; the general-path viewport fallback.
	PixelRect math.Rect

	Presentation PresentationConfig
}

// FullFramebufferRect returns the pixel rect covering the whole surface
// at origin.
func FullFramebufferRect(width, height uint32) math.Rect {
	return math.NewRect(0, 0, float32(width), float32(height))
}

/**
 * @brief Per-frame parameters for a render stage's Configure.
 */
type StageConfig struct {
	// Descriptor of the source buffer; the dimension selects the
	// target-setup variant.
	Descriptor RenderTargetDescriptor
	// The buffer to copy from, produced earlier in the same frame.
	Source RenderTargetHandle
	// Clear the destination instead of preserving prior contents.
	ClearDestination bool
	// Restrict the blit to a sub-region; UnsetRect means the camera's
	// full pixel rect.
	ViewportRect math.Rect
}

/**
 * @brief A structure which is generated by the application and sent once
 * to the renderer to render a given frame.
 */
type RenderPacket struct {
	DeltaTime float64
	// Frame targets a stereo display.
	Stereo bool
	// Frame is rendered by a scene/editor preview camera.
	SceneView bool
	// Clear the backbuffer before presenting.
	ClearDestination bool
	// Restrict presentation to this sub-rect (split-screen); UnsetRect
	// presents to the camera's full pixel rect.
	ViewportRect math.Rect
	// Name of the camera rendering this frame; empty means the default.
	CameraName string
}
