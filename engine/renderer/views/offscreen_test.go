package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func TestOffscreenViewRecordsClearAndDraw(t *testing.T) {
	material := &metadata.Material{Name: "builtin.offscreen"}
	view := NewOffscreenView(material)
	view.Configure(&metadata.StageConfig{
		Descriptor: metadata.RenderTargetDescriptor{
			Dimension: metadata.TARGET_DIMENSION_2D,
			Width:     1280,
			Height:    720,
		},
		ViewportRect: math.UnsetRect,
	})

	frame := defaultFrame()
	sub := &captureSubmitter{}
	ctx := commands.NewContext(sub, commands.NewPool(1))
	require.NoError(t, view.Execute(ctx, frame))

	require.Len(t, sub.submissions, 1)
	cmds := sub.submissions[0]

	require.IsType(t, commands.BeginTarget{}, cmds[0])
	begin := cmds[0].(commands.BeginTarget)
	assert.Equal(t, metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE, begin.Load)
	assert.Equal(t, metadata.ATTACHMENT_STORE_OPERATION_STORE, begin.Store)

	var sawClear, sawDraw bool
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case commands.ClearTarget:
			sawClear = true
		case commands.Draw:
			sawDraw = true
			assert.Equal(t, "builtin.offscreen", c.Material)
			assert.Equal(t, uint32(3), c.VertexCount)
		case commands.SetViewProjection:
			assert.Equal(t, frame.View, c.View)
			assert.Equal(t, frame.Projection, c.Projection)
		}
	}
	assert.True(t, sawClear)
	assert.True(t, sawDraw)
	assert.IsType(t, commands.EndTarget{}, cmds[len(cmds)-1])
}
