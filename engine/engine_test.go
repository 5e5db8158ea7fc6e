package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/prisma/engine/core"
)

func TestRecoverableFrameError(t *testing.T) {
	assert.True(t, recoverableFrameError(core.ErrSwapchainBooting))
	assert.True(t, recoverableFrameError(
		fmt.Errorf("%w: acquire failed", core.ErrSwapchainBooting)),
		"wrapped boot errors still classify as recoverable")
	assert.False(t, recoverableFrameError(errors.New("device lost")))
	assert.False(t, recoverableFrameError(nil))
}
