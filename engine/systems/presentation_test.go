package systems

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPresentationDefaultsWithoutFile(t *testing.T) {
	ps, err := NewPresentationSystem("")
	require.NoError(t, err)
	defer ps.Shutdown()

	cfg := ps.Snapshot()
	assert.Equal(t, metadata.OVERLAY_MODE_NONE, cfg.Overlay)
	assert.Equal(t, float32(0), cfg.RangeMin)
	assert.Equal(t, float32(1), cfg.RangeMax)
	assert.False(t, cfg.HighlightAlpha)
	assert.True(t, cfg.ConvertToSRGB)
	assert.True(t, cfg.KillAlpha)
}

func TestPresentationLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presentation.toml")
	writeConfig(t, path, `
overlay = "highlight_outside_range"
range_min = -2.0
range_max = 8.5
highlight_alpha = true
convert_to_srgb = false
kill_alpha = false
`)

	ps, err := NewPresentationSystem(path)
	require.NoError(t, err)
	defer ps.Shutdown()

	cfg := ps.Snapshot()
	assert.Equal(t, metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE, cfg.Overlay)
	assert.Equal(t, float32(-2.0), cfg.RangeMin)
	assert.Equal(t, float32(8.5), cfg.RangeMax)
	assert.True(t, cfg.HighlightAlpha)
	assert.False(t, cfg.ConvertToSRGB)
	assert.False(t, cfg.KillAlpha)
}

func TestPresentationPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presentation.toml")
	writeConfig(t, path, `overlay = "highlight_nan_inf_negative"`)

	ps, err := NewPresentationSystem(path)
	require.NoError(t, err)
	defer ps.Shutdown()

	cfg := ps.Snapshot()
	assert.Equal(t, metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, cfg.Overlay)
	assert.Equal(t, float32(0), cfg.RangeMin)
	assert.Equal(t, float32(1), cfg.RangeMax, "absent keys keep their defaults")
	assert.False(t, cfg.HighlightAlpha)
	assert.True(t, cfg.ConvertToSRGB)
	assert.True(t, cfg.KillAlpha)
}

func TestPresentationBrokenFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presentation.toml")
	writeConfig(t, path, `overlay = "not_a_mode"`)

	ps, err := NewPresentationSystem(path)
	require.NoError(t, err, "a broken config file is not fatal")
	defer ps.Shutdown()

	assert.Equal(t, defaultPresentationConfig(), ps.Snapshot())
}

func TestPresentationMissingFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	ps, err := NewPresentationSystem(path)
	require.NoError(t, err)
	defer ps.Shutdown()

	assert.Equal(t, defaultPresentationConfig(), ps.Snapshot())
}

func TestPresentationSettersAndSnapshotIsolation(t *testing.T) {
	ps, err := NewPresentationSystem("")
	require.NoError(t, err)
	defer ps.Shutdown()

	before := ps.Snapshot()

	ps.SetOverlay(metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE)
	ps.SetRange(0.5, 2.0)
	ps.SetHighlightAlpha(true)
	ps.SetConvertToSRGB(false)
	ps.SetKillAlpha(false)

	after := ps.Snapshot()
	assert.Equal(t, metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, after.Overlay)
	assert.Equal(t, float32(0.5), after.RangeMin)
	assert.Equal(t, float32(2.0), after.RangeMax)
	assert.True(t, after.HighlightAlpha)
	assert.False(t, after.ConvertToSRGB)
	assert.False(t, after.KillAlpha)

	// The earlier snapshot is a value copy; the setters above must not
	// have touched it.
	assert.Equal(t, metadata.OVERLAY_MODE_NONE, before.Overlay)
	assert.True(t, before.ConvertToSRGB)
}

func TestPresentationHotReload(t *testing.T) {
	core.EventSystemInitialize()

	path := filepath.Join(t.TempDir(), "presentation.toml")
	writeConfig(t, path, `overlay = "none"`)

	ps, err := NewPresentationSystem(path)
	require.NoError(t, err)
	defer ps.Shutdown()

	var received []metadata.PresentationConfig
	id := core.EventRegister(core.EVENT_CODE_PRESENTATION_CONFIG_CHANGED, func(ctx core.EventContext) {
		cfg, ok := ctx.Data.(metadata.PresentationConfig)
		if ok {
			received = append(received, cfg)
		}
	})
	defer core.EventUnregister(core.EVENT_CODE_PRESENTATION_CONFIG_CHANGED, id)

	writeConfig(t, path, `overlay = "highlight_nan_inf_negative"`)

	require.Eventually(t, func() bool {
		core.ProcessEvents()
		return len(received) > 0
	}, 5*time.Second, 10*time.Millisecond, "the config change must surface on the main loop")

	last := received[len(received)-1]
	assert.Equal(t, metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, last.Overlay)
	assert.Equal(t, metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, ps.Snapshot().Overlay)
}
