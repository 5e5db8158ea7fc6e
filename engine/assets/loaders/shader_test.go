package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func TestShaderLoaderReadsWordAlignedBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blit.frag.spv")
	blob := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	sl := &ShaderLoader{}
	res, err := sl.Load(path, metadata.ResourceTypeShader, nil)
	require.NoError(t, err)

	assert.Equal(t, "blit.frag", res.Name)
	assert.Equal(t, uint64(len(blob)), res.DataSize)

	stage, ok := res.Data.(*metadata.ShaderStage)
	require.True(t, ok)
	assert.Equal(t, blob, stage.Code)
}

func TestShaderLoaderRejectsMisalignedBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.vert.spv")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o644))

	sl := &ShaderLoader{}
	_, err := sl.Load(path, metadata.ResourceTypeShader, nil)
	assert.Error(t, err)
}
