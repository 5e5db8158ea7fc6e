package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

const testFNT = `info face="Ubuntu Mono" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=38 base=30 scaleW=512 scaleH=256 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="ubuntu_mono_0.png"
chars count=2
char id=65 x=10 y=20 width=18 height=28 xoffset=1 yoffset=4 xadvance=19 page=0 chnl=15
char id=86 x=40 y=20 width=20 height=28 xoffset=0 yoffset=4 xadvance=19 page=0 chnl=15
kernings count=1
kerning first=65 second=86 amount=-2
`

func TestBitmapFontLoaderParsesDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ubuntu_mono.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFNT), 0o644))

	fl := &BitmapFontLoader{}
	res, err := fl.Load(path, metadata.ResourceTypeBitmapFont, nil)
	require.NoError(t, err)
	assert.Equal(t, "ubuntu_mono", res.Name)

	data, ok := res.Data.(*metadata.BitmapFontResourceData)
	require.True(t, ok)

	assert.Equal(t, metadata.FONT_TYPE_BITMAP, data.Data.FontType)
	assert.Equal(t, "Ubuntu Mono", data.Data.Face)
	assert.Equal(t, uint32(32), data.Data.Size)
	assert.Equal(t, int32(38), data.Data.LineHeight)
	assert.Equal(t, int32(30), data.Data.Baseline)
	assert.Equal(t, int32(512), data.Data.AtlasSizeX)
	assert.Equal(t, int32(256), data.Data.AtlasSizeY)

	require.Len(t, data.Pages, 1)
	assert.Equal(t, "ubuntu_mono_0.png", data.Pages[0].File)

	require.Len(t, data.Data.Glyphs, 2)
	var a *metadata.FontGlyph
	for _, g := range data.Data.Glyphs {
		if g.Codepoint == 'A' {
			a = g
		}
	}
	require.NotNil(t, a)
	assert.Equal(t, uint16(10), a.X)
	assert.Equal(t, uint16(20), a.Y)
	assert.Equal(t, uint16(18), a.Width)
	assert.Equal(t, uint16(28), a.Height)
	assert.Equal(t, int16(19), a.XAdvance)

	require.Len(t, data.Data.Kernings, 1)
	assert.Equal(t, int32('A'), data.Data.Kernings[0].Codepoint0)
	assert.Equal(t, int32('V'), data.Data.Kernings[0].Codepoint1)
	assert.Equal(t, int16(-2), data.Data.Kernings[0].Amount)
}

func TestBitmapFontLoaderMissingFile(t *testing.T) {
	fl := &BitmapFontLoader{}
	_, err := fl.Load(filepath.Join(t.TempDir(), "nope.fnt"), metadata.ResourceTypeBitmapFont, nil)
	assert.Error(t, err)
}

func TestBitmapFontLoaderUnloadClearsResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ubuntu_mono.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFNT), 0o644))

	fl := &BitmapFontLoader{}
	res, err := fl.Load(path, metadata.ResourceTypeBitmapFont, nil)
	require.NoError(t, err)

	require.NoError(t, fl.Unload(res))
	assert.Nil(t, res.Data)
	assert.Zero(t, res.DataSize)
}
