package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/renderer/components"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func newCameraSystem(t *testing.T, max uint16) *CameraSystem {
	t.Helper()
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: max})
	require.NoError(t, err)
	return cs
}

func TestCameraSystemRequiresCapacity(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 0})
	assert.Error(t, err)
}

func TestCameraSystemDefaultCamera(t *testing.T) {
	cs := newCameraSystem(t, 2)

	byEmpty, err := cs.Acquire("")
	require.NoError(t, err)
	byName, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)

	assert.Same(t, cs.GetDefault(), byEmpty)
	assert.Same(t, byEmpty, byName)
}

func TestCameraSystemAcquireAndRelease(t *testing.T) {
	cs := newCameraSystem(t, 2)

	cam, err := cs.Acquire("editor")
	require.NoError(t, err)
	require.NotNil(t, cam)
	assert.NotSame(t, cs.GetDefault(), cam)

	again, err := cs.Acquire("editor")
	require.NoError(t, err)
	assert.Same(t, cam, again, "acquiring the same name returns the same camera")

	cam.SetPosition(math.NewVec3(1, 2, 3))

	// Two acquisitions need two releases before the slot frees up.
	cs.Release("editor")
	_, stillThere := cs.Lookup["editor"]
	assert.True(t, stillThere)

	cs.Release("editor")
	_, gone := cs.Lookup["editor"]
	assert.False(t, gone)
	assert.Equal(t, math.NewVec3Zero(), cam.GetPosition(), "released cameras reset")
}

func TestCameraSystemCapacityExhaustion(t *testing.T) {
	cs := newCameraSystem(t, 1)

	_, err := cs.Acquire("first")
	require.NoError(t, err)
	_, err = cs.Acquire("second")
	assert.Error(t, err)
}

func TestCameraSystemReleaseUnknownIsHarmless(t *testing.T) {
	cs := newCameraSystem(t, 1)
	cs.Release("ghost")
	cs.Release(components.DEFAULT_CAMERA_NAME)
}

func TestCameraSystemOnResizeUpdatesPixelRects(t *testing.T) {
	cs := newCameraSystem(t, 2)
	named, err := cs.Acquire("editor")
	require.NoError(t, err)

	cs.OnResize(1920, 1080)

	want := metadata.FullFramebufferRect(1920, 1080)
	assert.True(t, cs.GetDefault().GetPixelRect().Equals(want))
	assert.True(t, named.GetPixelRect().Equals(want))

	assert.True(t, named.IsDefaultViewport(1920, 1080))
	named.SetPixelRect(math.NewRect(0, 0, 960, 1080))
	assert.False(t, named.IsDefaultViewport(1920, 1080))
}
