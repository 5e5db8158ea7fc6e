package views

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

// captureSubmitter copies the recorded commands before the scope returns
// the buffer to the pool.
type captureSubmitter struct {
	submissions [][]commands.Command
}

func (c *captureSubmitter) SubmitCommands(buf *commands.Buffer) error {
	recorded := make([]commands.Command, buf.Len())
	copy(recorded, buf.Commands())
	c.submissions = append(c.submissions, recorded)
	return nil
}

func validBlitMaterial() *metadata.Material {
	return &metadata.Material{
		Name: "builtin.blit",
		Shader: &metadata.Shader{
			Name:     "builtin.blit",
			Vertex:   &metadata.ShaderStage{Name: "blit.vert", Code: []byte{0, 0, 0, 0}},
			Fragment: &metadata.ShaderStage{Name: "blit.frag", Code: []byte{0, 0, 0, 0}},
		},
	}
}

func defaultFrame() *metadata.FrameState {
	return &metadata.FrameState{
		DefaultViewport: true,
		View:            math.NewMat4Identity(),
		Projection:      math.NewMat4Identity(),
		PixelRect:       math.NewRect(0, 0, 1280, 720),
		Presentation: metadata.PresentationConfig{
			Overlay:       metadata.OVERLAY_MODE_NONE,
			RangeMin:      0,
			RangeMax:      1,
			ConvertToSRGB: true,
			KillAlpha:     true,
		},
	}
}

func executeBlit(t *testing.T, view *PresentationView, cfg *metadata.StageConfig, frame *metadata.FrameState) *captureSubmitter {
	t.Helper()
	sub := &captureSubmitter{}
	ctx := commands.NewContext(sub, commands.NewPool(1))
	view.Configure(cfg)
	require.NoError(t, view.Execute(ctx, frame))
	return sub
}

// keywordStates collapses a submission's SetKeyword commands into the
// final enabled state per keyword.
func keywordStates(cmds []commands.Command) map[metadata.ShaderKeyword]bool {
	states := map[metadata.ShaderKeyword]bool{}
	for _, cmd := range cmds {
		if kw, ok := cmd.(commands.SetKeyword); ok {
			states[kw.Keyword] = kw.Enabled
		}
	}
	return states
}

func TestPresentationFastPathDirectCopy(t *testing.T) {
	source := metadata.NewRenderTargetHandle()
	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Descriptor:   metadata.RenderTargetDescriptor{Dimension: metadata.TARGET_DIMENSION_2D},
		Source:       source,
		ViewportRect: math.UnsetRect,
	}, defaultFrame())

	require.Len(t, sub.submissions, 1)
	cmds := sub.submissions[0]

	var begin *commands.BeginTarget
	var copied *commands.Copy
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case commands.BeginTarget:
			begin = &c
		case commands.ClearTarget:
			t.Fatal("discrete GPU fast path must not clear the destination")
		case commands.Copy:
			copied = &c
		case commands.Draw:
			t.Fatal("fast path must not draw")
		case commands.BindSourceTexture:
			t.Fatal("fast path must not bind the source as a texture")
		}
	}
	require.NotNil(t, begin)
	require.NotNil(t, copied)
	assert.Equal(t, metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE, begin.Load)
	assert.Equal(t, metadata.ATTACHMENT_STORE_OPERATION_STORE, begin.Store)
	assert.Equal(t, source, copied.Source)
	assert.IsType(t, commands.EndTarget{}, cmds[len(cmds)-1])
}

func TestPresentationFastPathTileBasedClearsBeforeCopy(t *testing.T) {
	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_TILE_BASED)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	}, defaultFrame())

	require.Len(t, sub.submissions, 1)
	clearIndex, copyIndex := -1, -1
	for i, cmd := range sub.submissions[0] {
		switch cmd.(type) {
		case commands.ClearTarget:
			clearIndex = i
		case commands.Copy:
			copyIndex = i
		}
	}
	require.NotEqual(t, -1, clearIndex, "tile-based fast path must clear")
	require.NotEqual(t, -1, copyIndex)
	assert.Less(t, clearIndex, copyIndex, "clear must be recorded before the copy")
}

func TestPresentationOverlayForcesGeneralPath(t *testing.T) {
	source := metadata.NewRenderTargetHandle()
	frame := defaultFrame()
	frame.Presentation.Overlay = metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE

	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Descriptor:   metadata.RenderTargetDescriptor{Dimension: metadata.TARGET_DIMENSION_2D},
		Source:       source,
		ViewportRect: math.UnsetRect,
	}, frame)

	require.Len(t, sub.submissions, 1)
	cmds := sub.submissions[0]

	var bind *commands.BindSourceTexture
	var draw *commands.Draw
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case commands.BindSourceTexture:
			bind = &c
		case commands.Draw:
			draw = &c
		case commands.Copy:
			t.Fatal("general path must not use the direct copy")
		}
	}
	require.NotNil(t, bind)
	require.NotNil(t, draw)
	assert.Equal(t, source, bind.Source)
	assert.Equal(t, metadata.TARGET_DIMENSION_2D, bind.Dimension)
	assert.Equal(t, "builtin.blit", draw.Material)
	assert.Equal(t, uint32(3), draw.VertexCount)
}

func TestPresentationGeneralPathLoadsUnlessClearing(t *testing.T) {
	frame := defaultFrame()
	frame.DefaultViewport = false

	for _, tc := range []struct {
		name  string
		clear bool
		load  metadata.AttachmentLoadOperation
	}{
		{name: "preserve", clear: false, load: metadata.ATTACHMENT_LOAD_OPERATION_LOAD},
		{name: "clear", clear: true, load: metadata.ATTACHMENT_LOAD_OPERATION_DONT_CARE},
	} {
		t.Run(tc.name, func(t *testing.T) {
			view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
			sub := executeBlit(t, view, &metadata.StageConfig{
				Source:           metadata.NewRenderTargetHandle(),
				ClearDestination: tc.clear,
				ViewportRect:     math.UnsetRect,
			}, frame)

			require.Len(t, sub.submissions, 1)
			cleared := false
			for _, cmd := range sub.submissions[0] {
				switch c := cmd.(type) {
				case commands.BeginTarget:
					assert.Equal(t, tc.load, c.Load)
				case commands.ClearTarget:
					cleared = true
				}
			}
			assert.Equal(t, tc.clear, cleared)
		})
	}
}

func TestPresentationKeywordsMirrorConfig(t *testing.T) {
	frame := defaultFrame()
	frame.Presentation = metadata.PresentationConfig{
		Overlay:        metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE,
		RangeMin:       0.25,
		RangeMax:       4.0,
		HighlightAlpha: true,
		ConvertToSRGB:  false,
		KillAlpha:      true,
	}

	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	}, frame)

	require.Len(t, sub.submissions, 1)
	cmds := sub.submissions[0]
	states := keywordStates(cmds)

	assert.False(t, states[metadata.SHADER_KEYWORD_HIGHLIGHT_INVALID_VALUES])
	assert.True(t, states[metadata.SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE])
	assert.True(t, states[metadata.SHADER_KEYWORD_HIGHLIGHT_ALPHA_OUTSIDE_RANGE])
	assert.False(t, states[metadata.SHADER_KEYWORD_LINEAR_TO_SRGB])
	assert.True(t, states[metadata.SHADER_KEYWORD_KILL_ALPHA])

	var params *commands.SetKeywordParams
	for _, cmd := range cmds {
		if p, ok := cmd.(commands.SetKeywordParams); ok {
			params = &p
		}
	}
	require.NotNil(t, params, "range overlay must carry its bounds")
	assert.Equal(t, metadata.SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE, params.Keyword)
	assert.Equal(t, float32(0.25), params.Min)
	assert.Equal(t, float32(4.0), params.Max)
}

func TestPresentationRangeBoundsPassThroughUnvalidated(t *testing.T) {
	// Inverted bounds are not the stage's business; they reach the
	// shader untouched.
	frame := defaultFrame()
	frame.Presentation.Overlay = metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE
	frame.Presentation.RangeMin = 5.0
	frame.Presentation.RangeMax = -5.0

	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	}, frame)

	require.Len(t, sub.submissions, 1)
	for _, cmd := range sub.submissions[0] {
		if p, ok := cmd.(commands.SetKeywordParams); ok {
			assert.Equal(t, float32(5.0), p.Min)
			assert.Equal(t, float32(-5.0), p.Max)
			return
		}
	}
	t.Fatal("no keyword params recorded")
}

func TestPresentationAlphaSwitchOnlyInsideRangeOverlay(t *testing.T) {
	// HighlightAlpha set while a different overlay is active must not
	// touch the alpha switch at all.
	frame := defaultFrame()
	frame.Presentation.Overlay = metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE
	frame.Presentation.HighlightAlpha = true

	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	}, frame)

	require.Len(t, sub.submissions, 1)
	states := keywordStates(sub.submissions[0])
	_, touched := states[metadata.SHADER_KEYWORD_HIGHLIGHT_ALPHA_OUTSIDE_RANGE]
	assert.False(t, touched)
	assert.True(t, states[metadata.SHADER_KEYWORD_HIGHLIGHT_INVALID_VALUES])
	assert.False(t, states[metadata.SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE])
}

func TestPresentationFastPathClassification(t *testing.T) {
	for _, tc := range []struct {
		name     string
		stereo   bool
		scene    bool
		defaultV bool
		overlay  metadata.OverlayMode
		fast     bool
	}{
		{name: "default viewport", defaultV: true, fast: true},
		{name: "stereo", stereo: true, fast: true},
		{name: "scene view", scene: true, fast: true},
		{name: "custom viewport", fast: false},
		{name: "default viewport with overlay", defaultV: true, overlay: metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE, fast: false},
		{name: "stereo with overlay", stereo: true, overlay: metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, fast: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			frame := defaultFrame()
			frame.Stereo = tc.stereo
			frame.SceneView = tc.scene
			frame.DefaultViewport = tc.defaultV
			frame.Presentation.Overlay = tc.overlay

			view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
			sub := executeBlit(t, view, &metadata.StageConfig{
				Source:       metadata.NewRenderTargetHandle(),
				ViewportRect: math.UnsetRect,
			}, frame)

			require.Len(t, sub.submissions, 1)
			sawCopy := false
			for _, cmd := range sub.submissions[0] {
				if _, ok := cmd.(commands.Copy); ok {
					sawCopy = true
				}
			}
			assert.Equal(t, tc.fast, sawCopy)
		})
	}
}

func TestPresentationViewportFallbackAndOverride(t *testing.T) {
	frame := defaultFrame()
	frame.DefaultViewport = false
	frame.PixelRect = math.NewRect(0, 0, 800, 600)

	t.Run("fallback to pixel rect", func(t *testing.T) {
		view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
		sub := executeBlit(t, view, &metadata.StageConfig{
			Source:       metadata.NewRenderTargetHandle(),
			ViewportRect: math.UnsetRect,
		}, frame)

		require.Len(t, sub.submissions, 1)
		for _, cmd := range sub.submissions[0] {
			if vp, ok := cmd.(commands.SetViewport); ok {
				assert.True(t, vp.Rect.Equals(frame.PixelRect))
				return
			}
		}
		t.Fatal("no viewport recorded")
	})

	t.Run("explicit rect wins", func(t *testing.T) {
		rect := math.NewRect(0, 0, 400, 600)
		view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
		sub := executeBlit(t, view, &metadata.StageConfig{
			Source:       metadata.NewRenderTargetHandle(),
			ViewportRect: rect,
		}, frame)

		require.Len(t, sub.submissions, 1)
		for _, cmd := range sub.submissions[0] {
			if vp, ok := cmd.(commands.SetViewport); ok {
				assert.True(t, vp.Rect.Equals(rect))
				return
			}
		}
		t.Fatal("no viewport recorded")
	})
}

func TestPresentationRestoresViewProjection(t *testing.T) {
	frame := defaultFrame()
	frame.DefaultViewport = false
	frame.View = math.NewMat4Translation(math.NewVec3(1, 2, 3))
	frame.Projection = math.NewMat4Orthographic(0, 800, 600, 0, -1, 1)

	view := NewPresentationView(validBlitMaterial(), metadata.GPU_CLASS_DISCRETE)
	sub := executeBlit(t, view, &metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	}, frame)

	require.Len(t, sub.submissions, 1)
	var setMatrices []commands.SetViewProjection
	drawIndex := -1
	for i, cmd := range sub.submissions[0] {
		switch c := cmd.(type) {
		case commands.SetViewProjection:
			setMatrices = append(setMatrices, c)
		case commands.Draw:
			drawIndex = i
		}
	}
	require.Len(t, setMatrices, 2, "one override before the draw, one restore after")
	require.NotEqual(t, -1, drawIndex)

	identity := math.NewMat4Identity()
	assert.Equal(t, identity, setMatrices[0].View)
	assert.Equal(t, identity, setMatrices[0].Projection)
	assert.Equal(t, frame.View, setMatrices[1].View)
	assert.Equal(t, frame.Projection, setMatrices[1].Projection)
}

func TestPresentationMissingMaterialSkipsFrame(t *testing.T) {
	var logged bytes.Buffer
	core.SetLogOutput(&logged)
	defer core.SetLogOutput(os.Stderr)

	sub := &captureSubmitter{}
	pool := commands.NewPool(1)
	ctx := commands.NewContext(sub, pool)

	view := NewPresentationView(nil, metadata.GPU_CLASS_DISCRETE)
	view.Configure(&metadata.StageConfig{
		Source:       metadata.NewRenderTargetHandle(),
		ViewportRect: math.UnsetRect,
	})

	require.NoError(t, view.Execute(ctx, defaultFrame()))
	assert.Empty(t, sub.submissions, "a missing material must emit nothing")
	assert.Equal(t, 1, pool.Free(), "the buffer must return to the pool")
	assert.Contains(t, logged.String(), "blit material is missing")
}
