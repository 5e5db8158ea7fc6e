package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/prisma/engine/assets"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of materials that can be registered with this system. */
	MaxMaterialCount uint32
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

/**
 * @brief Loads shader stages through the asset manager and assembles
 * them into materials. Materials are cached by name.
 */
type ResourceSystem struct {
	Config       ResourceSystemConfig
	assetManager *assets.AssetManager

	mutex     sync.Mutex
	materials map[string]*metadata.Material
	nextID    uint32
}

func NewResourceSystem(config ResourceSystemConfig) (*ResourceSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("failed to run NewResourceSystem because config.MaxMaterialCount==0")
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	if err := am.Initialize(config.AssetBasePath); err != nil {
		return nil, err
	}

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)

	return &ResourceSystem{
		Config:       config,
		assetManager: am,
		materials:    make(map[string]*metadata.Material, config.MaxMaterialCount),
	}, nil
}

func (rs *ResourceSystem) Shutdown() error {
	return rs.assetManager.Shutdown()
}

/**
 * @brief Loads a single compiled shader stage by name.
 */
func (rs *ResourceSystem) LoadShaderStage(name string) (*metadata.ShaderStage, error) {
	res, err := rs.assetManager.LoadAsset(name, metadata.ResourceTypeShader, nil)
	if err != nil {
		return nil, err
	}
	stage, ok := res.Data.(*metadata.ShaderStage)
	if !ok {
		return nil, fmt.Errorf("shader resource '%s' holds unexpected data", name)
	}
	return stage, nil
}

/**
 * @brief Loads the named bitmap font descriptor (<base>/fonts/<name>.fnt).
 */
func (rs *ResourceSystem) LoadBitmapFont(name string) (*metadata.BitmapFontResourceData, error) {
	res, err := rs.assetManager.LoadAsset(name, metadata.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, err
	}
	font, ok := res.Data.(*metadata.BitmapFontResourceData)
	if !ok {
		return nil, fmt.Errorf("bitmap font resource '%s' holds unexpected data", name)
	}
	return font, nil
}

/**
 * @brief Loads the named system font config (<base>/fonts/<name>.fontcfg)
 * together with the font binary it references.
 */
func (rs *ResourceSystem) LoadSystemFont(name string) (*metadata.SystemFontResourceData, error) {
	res, err := rs.assetManager.LoadAsset(name, metadata.ResourceTypeSystemFont, nil)
	if err != nil {
		return nil, err
	}
	font, ok := res.Data.(*metadata.SystemFontResourceData)
	if !ok {
		return nil, fmt.Errorf("system font resource '%s' holds unexpected data", name)
	}
	return font, nil
}

/**
 * @brief Acquires the material with the given name, building it from the
 * named vertex and fragment stages on first use.
 *
 * @param name The material name to cache under.
 * @param vertexShader The vertex stage asset name.
 * @param fragmentShader The fragment stage asset name.
 * @return The material; nil with an error when any stage is missing.
 */
func (rs *ResourceSystem) AcquireMaterial(name, vertexShader, fragmentShader string) (*metadata.Material, error) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if m, ok := rs.materials[name]; ok {
		return m, nil
	}
	if uint32(len(rs.materials)) >= rs.Config.MaxMaterialCount {
		return nil, fmt.Errorf("resource_system_acquire_material - No available space for a new material. Change system config to account for more")
	}

	vertex, err := rs.LoadShaderStage(vertexShader)
	if err != nil {
		core.LogError("failed to load vertex stage '%s' for material '%s'", vertexShader, name)
		return nil, err
	}
	fragment, err := rs.LoadShaderStage(fragmentShader)
	if err != nil {
		core.LogError("failed to load fragment stage '%s' for material '%s'", fragmentShader, name)
		return nil, err
	}

	shader := &metadata.Shader{
		ID:       rs.nextID,
		Name:     name,
		Vertex:   vertex,
		Fragment: fragment,
	}
	material := &metadata.Material{
		ID:     rs.nextID,
		Name:   name,
		Shader: shader,
	}
	rs.nextID++
	rs.materials[name] = material

	return material, nil
}

func (rs *ResourceSystem) ReleaseMaterial(name string) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	delete(rs.materials, name)
}
