package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"

	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief Loads a system font config (.fontcfg): a line-based file with a
 * `file=` key naming the font binary, resolved relative to the config
 * file, and one `face=` key per face to expose from it.
 */
type SystemFontLoader struct{}

func (fl *SystemFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var fontFile string
	data := &metadata.SystemFontResourceData{
		Fonts: []*metadata.SystemFontFace{},
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "file="):
			fontFile = strings.TrimPrefix(line, "file=")
		case strings.HasPrefix(line, "face="):
			data.Fonts = append(data.Fonts, &metadata.SystemFontFace{
				Name: strings.TrimPrefix(line, "face="),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if fontFile == "" {
		return nil, fmt.Errorf("system font config '%s' names no font file", path)
	}
	if len(data.Fonts) == 0 {
		return nil, fmt.Errorf("system font config '%s' names no faces", path)
	}

	fontBytes, err := os.ReadFile(filepath.Join(filepath.Dir(path), fontFile))
	if err != nil {
		return nil, err
	}
	collection, err := opentype.ParseCollection(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("font file '%s' did not parse: %s", fontFile, err.Error())
	}
	data.FontBinary = collection
	data.BinarySize = uint64(len(fontBytes))

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Data:     data,
		DataSize: data.BinarySize,
	}, nil
}

func (fl *SystemFontLoader) Unload(resource *metadata.Resource) error {
	if resource.Data != nil {
		data := resource.Data.(*metadata.SystemFontResourceData)
		data.Fonts = nil
		data.FontBinary = nil
		resource.Data = nil
		resource.DataSize = 0
	}
	return nil
}
