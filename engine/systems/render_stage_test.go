package systems

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/renderer/commands"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
	"github.com/spaghettifunk/prisma/engine/renderer/views"
)

// fakeBackend records the call sequence the render stage system drives,
// standing in for the Vulkan backend.
type fakeBackend struct {
	gpuClass metadata.GPUClass
	targets  map[metadata.RenderTargetHandle]metadata.RenderTargetDescriptor
	// Interleaved "destination" and "submit" entries, in call order.
	events      []string
	submissions [][]commands.Command
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		gpuClass: metadata.GPU_CLASS_DISCRETE,
		targets:  map[metadata.RenderTargetHandle]metadata.RenderTargetDescriptor{},
	}
}

func (fb *fakeBackend) Initialize(appName string, appWidth, appHeight uint32) error { return nil }
func (fb *fakeBackend) Shutdown() error                                            { return nil }
func (fb *fakeBackend) Resized(width, height uint16) error                         { return nil }
func (fb *fakeBackend) BeginFrame(deltaTime float64) error                         { return nil }
func (fb *fakeBackend) EndFrame(deltaTime float64) error                           { return nil }

func (fb *fakeBackend) SubmitCommands(buf *commands.Buffer) error {
	recorded := make([]commands.Command, buf.Len())
	copy(recorded, buf.Commands())
	fb.submissions = append(fb.submissions, recorded)
	fb.events = append(fb.events, "submit")
	return nil
}

func (fb *fakeBackend) CreateRenderTarget(descriptor metadata.RenderTargetDescriptor) (metadata.RenderTargetHandle, error) {
	handle := metadata.NewRenderTargetHandle()
	fb.targets[handle] = descriptor
	return handle, nil
}

func (fb *fakeBackend) DestroyRenderTarget(handle metadata.RenderTargetHandle) error {
	if _, ok := fb.targets[handle]; !ok {
		return fmt.Errorf("unknown render target %s", handle.String())
	}
	delete(fb.targets, handle)
	return nil
}

func (fb *fakeBackend) SetDestination(handle metadata.RenderTargetHandle) error {
	if handle.IsNil() {
		fb.events = append(fb.events, "destination:backbuffer")
		return nil
	}
	if _, ok := fb.targets[handle]; !ok {
		return fmt.Errorf("unknown render target %s", handle.String())
	}
	fb.events = append(fb.events, "destination:"+handle.String())
	return nil
}

func (fb *fakeBackend) RegisterMaterial(material *metadata.Material) error { return nil }
func (fb *fakeBackend) GPUClass() metadata.GPUClass                        { return fb.gpuClass }

// recordingStage captures Configure inputs and emits one command per
// Execute so the fake backend sees a submission.
type recordingStage struct {
	configs []metadata.StageConfig
	frames  []metadata.FrameState
	fail    error
}

func (rs *recordingStage) Configure(config *metadata.StageConfig) {
	rs.configs = append(rs.configs, *config)
}

func (rs *recordingStage) Execute(ctx *commands.Context, frame *metadata.FrameState) error {
	rs.frames = append(rs.frames, *frame)
	if rs.fail != nil {
		return rs.fail
	}
	return ctx.Scoped(func(buf *commands.Buffer) error {
		return buf.Record(commands.EndTarget{})
	})
}

func newStageFixture(t *testing.T, maxStages uint16) (*RenderStageSystem, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	r := renderer.NewWithBackend(backend)
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 4})
	require.NoError(t, err)
	ps, err := NewPresentationSystem("")
	require.NoError(t, err)
	rss, err := NewRenderStageSystem(RenderStageSystemConfig{MaxStageCount: maxStages}, r, cs, ps)
	require.NoError(t, err)
	rss.OnWindowResize(1280, 720)
	return rss, backend
}

func offscreenDescriptor() *metadata.RenderTargetDescriptor {
	return &metadata.RenderTargetDescriptor{
		Dimension: metadata.TARGET_DIMENSION_2D,
		Format:    metadata.TARGET_FORMAT_RGBA16_FLOAT,
		Width:     1280,
		Height:    720,
	}
}

func TestRenderStageRegisterCreatesIntermediateTarget(t *testing.T) {
	rss, backend := newStageFixture(t, 4)

	require.NoError(t, rss.Register("scene", &recordingStage{}, offscreenDescriptor()))
	assert.Len(t, backend.targets, 1)

	require.NoError(t, rss.Register("present", &recordingStage{}, nil))
	assert.Len(t, backend.targets, 1, "a consuming stage owns no target")

	assert.NotNil(t, rss.Get("scene"))
	assert.NotNil(t, rss.Get("present"))
	assert.Nil(t, rss.Get("missing"))
}

func TestRenderStageRegisterValidation(t *testing.T) {
	rss, _ := newStageFixture(t, 1)

	assert.Error(t, rss.Register("", &recordingStage{}, nil))
	require.NoError(t, rss.Register("only", &recordingStage{}, nil))
	assert.Error(t, rss.Register("only", &recordingStage{}, nil), "duplicate names rejected")
	assert.Error(t, rss.Register("overflow", &recordingStage{}, nil), "capacity exhausted")
}

func TestRenderStageSourceThreading(t *testing.T) {
	rss, _ := newStageFixture(t, 4)

	producer := &recordingStage{}
	consumer := &recordingStage{}
	require.NoError(t, rss.Register("scene", producer, offscreenDescriptor()))
	require.NoError(t, rss.Register("present", consumer, nil))

	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{ViewportRect: math.UnsetRect}))

	require.Len(t, producer.configs, 1)
	require.Len(t, consumer.configs, 1)

	assert.True(t, producer.configs[0].Source.IsNil(), "the first stage has nothing to read")
	assert.Equal(t, *offscreenDescriptor(), producer.configs[0].Descriptor)

	producerOutput := rss.RegisteredStages[0].Output
	assert.Equal(t, producerOutput, consumer.configs[0].Source,
		"the consumer reads the producer's output buffer")
	assert.Equal(t, *offscreenDescriptor(), consumer.configs[0].Descriptor,
		"the consumer sees the shape of the buffer it reads")
}

func TestRenderStageDestinationPrecedesEachExecution(t *testing.T) {
	rss, backend := newStageFixture(t, 4)

	require.NoError(t, rss.Register("scene", &recordingStage{}, offscreenDescriptor()))
	require.NoError(t, rss.Register("present", &recordingStage{}, nil))
	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{ViewportRect: math.UnsetRect}))

	producerOutput := rss.RegisteredStages[0].Output
	assert.Equal(t, []string{
		"destination:" + producerOutput.String(),
		"submit",
		"destination:backbuffer",
		"submit",
	}, backend.events)
}

func TestRenderStageFramePassesClassificationAndConfig(t *testing.T) {
	rss, _ := newStageFixture(t, 4)
	stage := &recordingStage{}
	require.NoError(t, rss.Register("present", stage, nil))

	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{
		Stereo:           true,
		ClearDestination: true,
		ViewportRect:     math.UnsetRect,
	}))

	require.Len(t, stage.frames, 1)
	frame := stage.frames[0]
	assert.True(t, frame.Stereo)
	assert.False(t, frame.SceneView)
	assert.True(t, frame.DefaultViewport,
		"the default camera covers the full framebuffer after resize")
	assert.True(t, frame.PixelRect.Equals(math.NewRect(0, 0, 1280, 720)))

	require.Len(t, stage.configs, 1)
	assert.True(t, stage.configs[0].ClearDestination)
}

func TestRenderStageCustomCameraRectClearsDefaultViewport(t *testing.T) {
	rss, _ := newStageFixture(t, 4)
	stage := &recordingStage{}
	require.NoError(t, rss.Register("present", stage, nil))

	rss.cameraSystem.GetDefault().SetPixelRect(math.NewRect(0, 0, 640, 720))
	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{ViewportRect: math.UnsetRect}))

	require.Len(t, stage.frames, 1)
	assert.False(t, stage.frames[0].DefaultViewport)
	assert.True(t, stage.frames[0].PixelRect.Equals(math.NewRect(0, 0, 640, 720)))
}

func TestRenderStagePacketViewportClearsDefaultViewport(t *testing.T) {
	rss, _ := newStageFixture(t, 4)
	stage := &recordingStage{}
	require.NoError(t, rss.Register("present", stage, nil))

	half := math.NewRect(0, 0, 640, 720)
	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{ViewportRect: half}))

	require.Len(t, stage.frames, 1)
	assert.False(t, stage.frames[0].DefaultViewport,
		"a packet sub-rect restricts the blit even when the camera covers the framebuffer")
	require.Len(t, stage.configs, 1)
	assert.True(t, stage.configs[0].ViewportRect.Equals(half))
}

func TestRenderStagePacketViewportReachesTheBlit(t *testing.T) {
	rss, backend := newStageFixture(t, 4)

	material := &metadata.Material{
		Name: "builtin.blit",
		Shader: &metadata.Shader{
			Name:     "builtin.blit",
			Vertex:   &metadata.ShaderStage{Name: "blit.vert", Code: []byte{1, 2, 3, 4}},
			Fragment: &metadata.ShaderStage{Name: "blit.frag", Code: []byte{5, 6, 7, 8}},
		},
	}
	view := views.NewPresentationView(material, backend.GPUClass())
	require.NoError(t, rss.Register("present", view, nil))

	half := math.NewRect(0, 0, 640, 720)
	require.NoError(t, rss.DrawFrame(&metadata.RenderPacket{ViewportRect: half}))

	require.Len(t, backend.submissions, 1)
	var viewports []math.Rect
	copied := false
	for _, cmd := range backend.submissions[0] {
		switch c := cmd.(type) {
		case commands.SetViewport:
			viewports = append(viewports, c.Rect)
		case commands.Copy:
			copied = true
		}
	}
	assert.False(t, copied, "a sub-rect present must not take the direct-copy path")
	require.Len(t, viewports, 1)
	assert.True(t, viewports[0].Equals(half))
}

func TestRenderStageResizeRecreatesIntermediateTargets(t *testing.T) {
	rss, backend := newStageFixture(t, 4)
	require.NoError(t, rss.Register("scene", &recordingStage{}, offscreenDescriptor()))

	before := rss.RegisteredStages[0].Output
	rss.OnWindowResize(1920, 1080)
	after := rss.RegisteredStages[0].Output

	assert.NotEqual(t, before, after)
	descriptor, ok := backend.targets[after]
	require.True(t, ok)
	assert.Equal(t, uint32(1920), descriptor.Width)
	assert.Equal(t, uint32(1080), descriptor.Height)
	assert.Len(t, backend.targets, 1, "the old target is destroyed")
}

func TestRenderStageExecuteErrorStopsTheFrame(t *testing.T) {
	rss, _ := newStageFixture(t, 4)

	boom := errors.New("stage exploded")
	failing := &recordingStage{fail: boom}
	never := &recordingStage{}
	require.NoError(t, rss.Register("first", failing, nil))
	require.NoError(t, rss.Register("second", never, nil))

	err := rss.DrawFrame(&metadata.RenderPacket{ViewportRect: math.UnsetRect})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, never.configs, "later stages must not run after a failure")
}
