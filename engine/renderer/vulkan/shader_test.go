package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func TestBytesToWordsLittleEndian(t *testing.T) {
	code := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	words := bytesToWords(code)
	require.Len(t, words, 2)
	assert.Equal(t, uint32(0x07230203), words[0], "the SPIR-V magic number")
	assert.Equal(t, uint32(0x00010000), words[1])
}

func TestNewShaderModuleRejectsBadStages(t *testing.T) {
	_, err := NewShaderModule(nil, nil, 0)
	assert.Error(t, err)

	_, err = NewShaderModule(nil, &metadata.ShaderStage{Name: "empty.vert"}, 0)
	assert.Error(t, err)

	_, err = NewShaderModule(nil, &metadata.ShaderStage{
		Name: "ragged.frag",
		Code: []byte{0x01, 0x02, 0x03},
	}, 0)
	assert.Error(t, err, "SPIR-V blobs must be word aligned")
}
