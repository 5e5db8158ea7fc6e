package views

import (
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief The upstream colour pass. Renders the frame's content into the
 * offscreen target the presentation view blits from. Deliberately
 * simple: a clear plus one gradient triangle.
 */
type OffscreenView struct {
	material *metadata.Material

	width  uint32
	height uint32
}

func NewOffscreenView(material *metadata.Material) *OffscreenView {
	return &OffscreenView{
		material: material,
	}
}

func (v *OffscreenView) Configure(config *metadata.StageConfig) {
	// The stage registry owns the offscreen target; per-frame
	// configuration only tracks size changes.
	if config.Descriptor.Width != 0 && config.Descriptor.Height != 0 {
		v.width = config.Descriptor.Width
		v.height = config.Descriptor.Height
	}
}

func (v *OffscreenView) Execute(ctx *commands.Context, frame *metadata.FrameState) error {
	return ctx.Scoped(func(buf *commands.Buffer) error {
		if err := buf.Record(commands.BeginTarget{
			Load:  metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE,
			Store: metadata.ATTACHMENT_STORE_OPERATION_STORE,
		}); err != nil {
			return err
		}
		if err := buf.Record(commands.ClearTarget{Colour: math.NewVec4(0.0, 0.0, 0.2, 1.0)}); err != nil {
			return err
		}
		if err := buf.Record(commands.SetViewProjection{View: frame.View, Projection: frame.Projection}); err != nil {
			return err
		}
		if err := buf.Record(commands.SetViewport{Rect: frame.PixelRect}); err != nil {
			return err
		}
		materialName := ""
		if v.material != nil {
			materialName = v.material.Name
		}
		if err := buf.Record(commands.Draw{
			Material:    materialName,
			VertexCount: 3,
		}); err != nil {
			return err
		}
		return buf.Record(commands.EndTarget{})
	})
}
