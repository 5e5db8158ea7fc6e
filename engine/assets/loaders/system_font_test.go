package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

func TestSystemFontLoaderLoadsFontAndFaces(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go_regular.ttf"), goregular.TTF, 0o644))

	path := filepath.Join(dir, "default.fontcfg")
	cfg := `# Default UI font.
file=go_regular.ttf
face=Go Regular
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	fl := &SystemFontLoader{}
	res, err := fl.Load(path, metadata.ResourceTypeSystemFont, nil)
	require.NoError(t, err)
	assert.Equal(t, "default", res.Name)

	data, ok := res.Data.(*metadata.SystemFontResourceData)
	require.True(t, ok)
	require.NotNil(t, data.FontBinary)
	assert.Equal(t, uint64(len(goregular.TTF)), data.BinarySize)
	require.Len(t, data.Fonts, 1)
	assert.Equal(t, "Go Regular", data.Fonts[0].Name)
}

func TestSystemFontLoaderRequiresFontFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faces_only.fontcfg")
	require.NoError(t, os.WriteFile(path, []byte("face=Orphan Face\n"), 0o644))

	fl := &SystemFontLoader{}
	_, err := fl.Load(path, metadata.ResourceTypeSystemFont, nil)
	assert.Error(t, err)
}

func TestSystemFontLoaderMissingFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dangling.fontcfg")
	cfg := "file=not_there.ttf\nface=Nothing\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	fl := &SystemFontLoader{}
	_, err := fl.Load(path, metadata.ResourceTypeSystemFont, nil)
	assert.Error(t, err)
}

func TestSystemFontLoaderRejectsBrokenFontBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.ttf"), []byte("not a font"), 0o644))

	path := filepath.Join(dir, "junk.fontcfg")
	require.NoError(t, os.WriteFile(path, []byte("file=junk.ttf\nface=Junk\n"), 0o644))

	fl := &SystemFontLoader{}
	_, err := fl.Load(path, metadata.ResourceTypeSystemFont, nil)
	assert.Error(t, err)
}
