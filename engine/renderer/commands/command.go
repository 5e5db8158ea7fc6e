package commands

import (
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief A single recorded GPU command. The set is closed: backends and
 * tests type-switch over the concrete structs below.
 */
type Command interface {
	isCommand()
}

// SetKeyword enables or disables a shader switch.
type SetKeyword struct {
	Keyword metadata.ShaderKeyword
	Enabled bool
}

// SetKeywordParams carries the two numeric bounds of the range-highlight
// switch. Recorded only while that switch is enabled.
type SetKeywordParams struct {
	Keyword metadata.ShaderKeyword
	Min     float32
	Max     float32
}

// BindSourceTexture makes a render target readable by the next draw.
type BindSourceTexture struct {
	Source    metadata.RenderTargetHandle
	Dimension metadata.TargetDimension
}

// BeginTarget starts rendering to the backbuffer with the given
// load/store actions.
type BeginTarget struct {
	Load  metadata.AttachmentLoadOperation
	Store metadata.AttachmentStoreOperation
}

// ClearTarget clears the current target's colour attachment.
type ClearTarget struct {
	Colour math.Vec4
}

// SetViewport restricts rendering to the given pixel rect.
type SetViewport struct {
	Rect math.Rect
}

// SetViewProjection replaces the active view and projection matrices.
type SetViewProjection struct {
	View       math.Mat4
	Projection math.Mat4
}

// Draw issues a non-indexed draw with the given material.
type Draw struct {
	Material    string
	VertexCount uint32
}

// Copy blits a full render target straight into the current target.
type Copy struct {
	Source metadata.RenderTargetHandle
}

// EndTarget finishes rendering to the current target.
type EndTarget struct{}

func (SetKeyword) isCommand()        {}
func (SetKeywordParams) isCommand()  {}
func (BindSourceTexture) isCommand() {}
func (BeginTarget) isCommand()       {}
func (ClearTarget) isCommand()       {}
func (SetViewport) isCommand()       {}
func (SetViewProjection) isCommand() {}
func (Draw) isCommand()              {}
func (Copy) isCommand()              {}
func (EndTarget) isCommand()         {}
