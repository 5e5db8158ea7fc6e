package loaders

import (
	"path/filepath"
	"strings"

	"github.com/fzipp/bmfont"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	// Only the descriptor is parsed here; the page sheet images are
	// uploaded separately when the font atlas is built.
	font, err := bmfont.LoadDescriptor(path)
	if err != nil {
		return nil, err
	}

	data := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			FontType:   metadata.FONT_TYPE_BITMAP,
			Face:       font.Info.Face,
			Size:       uint32(font.Info.Size),
			LineHeight: int32(font.Common.LineHeight),
			Baseline:   int32(font.Common.Base),
			AtlasSizeX: int32(font.Common.ScaleW),
			AtlasSizeY: int32(font.Common.ScaleH),
			Glyphs:     make([]*metadata.FontGlyph, 0, len(font.Chars)),
			Kernings:   make([]*metadata.FontKerning, 0, len(font.Kerning)),
		},
		Pages: make([]*metadata.BitmapFontPage, 0, len(font.Pages)),
	}

	for _, p := range font.Pages {
		data.Pages = append(data.Pages, &metadata.BitmapFontPage{
			ID:   int8(p.ID),
			File: p.File,
		})
	}

	for _, g := range font.Chars {
		data.Data.Glyphs = append(data.Data.Glyphs, &metadata.FontGlyph{
			Codepoint: int32(g.ID),
			Height:    uint16(g.Height),
			Width:     uint16(g.Width),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			XAdvance:  int16(g.XAdvance),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			PageID:    uint8(g.Page),
		})
	}

	for pair, k := range font.Kerning {
		data.Data.Kernings = append(data.Data.Kernings, &metadata.FontKerning{
			Amount:     int16(k.Amount),
			Codepoint0: int32(pair.First),
			Codepoint1: int32(pair.Second),
		})
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Data:     data,
		DataSize: uint64(len(font.Chars)),
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if resource.Data != nil {
		data := resource.Data.(*metadata.BitmapFontResourceData)
		data.Data.Glyphs = nil
		data.Data.Kernings = nil
		data.Pages = nil
		resource.Data = nil
		resource.DataSize = 0
		resource.LoaderID = metadata.InvalidID
		resource.FullPath = ""
	}
	return nil
}
