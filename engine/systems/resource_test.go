package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/image/font/gofont/goregular"
)

func newResourceFixture(t *testing.T) (*ResourceSystem, string) {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "fonts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "shaders"), 0o755))

	fnt := `info face="Ubuntu Mono" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=38 base=30 scaleW=512 scaleH=256 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="ubuntu_mono_0.png"
chars count=1
char id=65 x=10 y=20 width=18 height=28 xoffset=1 yoffset=4 xadvance=19 page=0 chnl=15
`
	require.NoError(t, os.WriteFile(filepath.Join(base, "fonts", "ubuntu_mono.fnt"), []byte(fnt), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "fonts", "go_regular.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "fonts", "default.fontcfg"),
		[]byte("file=go_regular.ttf\nface=Go Regular\n"), 0o644))

	rs, err := NewResourceSystem(ResourceSystemConfig{
		MaxMaterialCount: 8,
		AssetBasePath:    base,
	})
	require.NoError(t, err)
	t.Cleanup(func() { rs.Shutdown() })
	return rs, base
}

func TestResourceSystemLoadsBitmapFontFromBasePath(t *testing.T) {
	rs, _ := newResourceFixture(t)

	font, err := rs.LoadBitmapFont("ubuntu_mono")
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu Mono", font.Data.Face)
	assert.Equal(t, int32(38), font.Data.LineHeight)
	require.Len(t, font.Data.Glyphs, 1)
	assert.Equal(t, int32('A'), font.Data.Glyphs[0].Codepoint)
}

func TestResourceSystemLoadsSystemFont(t *testing.T) {
	rs, _ := newResourceFixture(t)

	font, err := rs.LoadSystemFont("default")
	require.NoError(t, err)
	require.NotNil(t, font.FontBinary)
	require.Len(t, font.Fonts, 1)
	assert.Equal(t, "Go Regular", font.Fonts[0].Name)
}

func TestResourceSystemUnknownFontIsAnError(t *testing.T) {
	rs, _ := newResourceFixture(t)

	_, err := rs.LoadBitmapFont("missing")
	assert.Error(t, err)
	_, err = rs.LoadSystemFont("missing")
	assert.Error(t, err)
}
