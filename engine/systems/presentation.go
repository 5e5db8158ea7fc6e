package systems

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/** @brief The on-disk presentation configuration file format. */
type presentationFile struct {
	Overlay        string  `toml:"overlay"`
	RangeMin       float32 `toml:"range_min"`
	RangeMax       float32 `toml:"range_max"`
	HighlightAlpha bool    `toml:"highlight_alpha"`
	ConvertToSRGB  bool    `toml:"convert_to_srgb"`
	KillAlpha      bool    `toml:"kill_alpha"`
}

/**
 * @brief Owns the presentation configuration. The active values can be
 * changed at runtime either programmatically or by editing the config
 * file on disk; the file is watched and reloaded on write.
 */
type PresentationSystem struct {
	config metadata.PresentationConfig
	path   string

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
}

func defaultPresentationConfig() metadata.PresentationConfig {
	return metadata.PresentationConfig{
		Overlay:        metadata.OVERLAY_MODE_NONE,
		RangeMin:       0.0,
		RangeMax:       1.0,
		HighlightAlpha: false,
		ConvertToSRGB:  true,
		KillAlpha:      true,
	}
}

func NewPresentationSystem(path string) (*PresentationSystem, error) {
	ps := &PresentationSystem{
		config: defaultPresentationConfig(),
		path:   path,
		done:   make(chan struct{}),
	}
	if path == "" {
		return ps, nil
	}

	if err := ps.loadFromFile(); err != nil {
		// A missing or broken config file is not fatal; the defaults stand.
		core.LogWarn("presentation config '%s' not loaded: %s", path, err.Error())
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ps.fsnotify = fsWatch
	if err := ps.fsnotify.Add(path); err != nil {
		core.LogWarn("presentation config '%s' not watched: %s", path, err.Error())
		ps.fsnotify.Close()
		ps.fsnotify = nil
		return ps, nil
	}
	go ps.watch()

	return ps, nil
}

func (ps *PresentationSystem) Shutdown() error {
	if ps.fsnotify != nil {
		close(ps.done)
	}
	return nil
}

/**
 * @brief Returns a value copy of the active configuration. The caller
 * owns the copy; later changes to the system do not affect it.
 */
func (ps *PresentationSystem) Snapshot() metadata.PresentationConfig {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	return ps.config
}

func (ps *PresentationSystem) SetOverlay(mode metadata.OverlayMode) {
	ps.mutex.Lock()
	ps.config.Overlay = mode
	ps.mutex.Unlock()
}

func (ps *PresentationSystem) SetRange(min, max float32) {
	ps.mutex.Lock()
	ps.config.RangeMin = min
	ps.config.RangeMax = max
	ps.mutex.Unlock()
}

func (ps *PresentationSystem) SetHighlightAlpha(enabled bool) {
	ps.mutex.Lock()
	ps.config.HighlightAlpha = enabled
	ps.mutex.Unlock()
}

func (ps *PresentationSystem) SetConvertToSRGB(enabled bool) {
	ps.mutex.Lock()
	ps.config.ConvertToSRGB = enabled
	ps.mutex.Unlock()
}

func (ps *PresentationSystem) SetKillAlpha(enabled bool) {
	ps.mutex.Lock()
	ps.config.KillAlpha = enabled
	ps.mutex.Unlock()
}

func (ps *PresentationSystem) loadFromFile() error {
	data, err := os.ReadFile(ps.path)
	if err != nil {
		return err
	}
	// Seed from the defaults so keys absent from the file keep their
	// documented values instead of collapsing to Go zero values.
	defaults := defaultPresentationConfig()
	file := presentationFile{
		Overlay:        overlayModeName(defaults.Overlay),
		RangeMin:       defaults.RangeMin,
		RangeMax:       defaults.RangeMax,
		HighlightAlpha: defaults.HighlightAlpha,
		ConvertToSRGB:  defaults.ConvertToSRGB,
		KillAlpha:      defaults.KillAlpha,
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return err
	}

	overlay, err := parseOverlayMode(file.Overlay)
	if err != nil {
		return err
	}

	ps.mutex.Lock()
	ps.config = metadata.PresentationConfig{
		Overlay:        overlay,
		RangeMin:       file.RangeMin,
		RangeMax:       file.RangeMax,
		HighlightAlpha: file.HighlightAlpha,
		ConvertToSRGB:  file.ConvertToSRGB,
		KillAlpha:      file.KillAlpha,
	}
	ps.mutex.Unlock()

	return nil
}

func parseOverlayMode(name string) (metadata.OverlayMode, error) {
	switch name {
	case "", "none":
		return metadata.OVERLAY_MODE_NONE, nil
	case "highlight_nan_inf_negative":
		return metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE, nil
	case "highlight_outside_range":
		return metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE, nil
	}
	return metadata.OVERLAY_MODE_NONE, fmt.Errorf("unknown overlay mode '%s'", name)
}

func overlayModeName(mode metadata.OverlayMode) string {
	switch mode {
	case metadata.OVERLAY_MODE_HIGHLIGHT_NAN_INF_NEGATIVE:
		return "highlight_nan_inf_negative"
	case metadata.OVERLAY_MODE_HIGHLIGHT_OUTSIDE_RANGE:
		return "highlight_outside_range"
	}
	return "none"
}

func (ps *PresentationSystem) watch() {
	for {
		select {

		case e := <-ps.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if err := ps.loadFromFile(); err != nil {
					core.LogError("presentation config reload failed: %s", err.Error())
					continue
				}
				core.LogInfo("presentation config reloaded from '%s'", ps.path)
				// Deliver on the main loop, not the watcher goroutine.
				core.EventEnqueue(core.EventContext{
					Type: core.EVENT_CODE_PRESENTATION_CONFIG_CHANGED,
					Data: ps.Snapshot(),
				})
			}

		case e := <-ps.fsnotify.Errors:
			core.LogError(e.Error())

		case <-ps.done:
			ps.fsnotify.Close()
			return
		}
	}
}
