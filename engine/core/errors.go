package core

import (
	"errors"
)

// ErrSwapchainBooting is returned by the renderer's BeginFrame while the
// swapchain is being resized or recreated. The frame is skipped; the
// next one picks up the new swapchain.
var ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
