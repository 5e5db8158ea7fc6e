package systems

import (
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
	"github.com/spaghettifunk/prisma/engine/renderer/views"
)

const (
	// Stage names, in frame order.
	STAGE_NAME_OFFSCREEN    string = "Stage.Offscreen"
	STAGE_NAME_PRESENTATION string = "Stage.Presentation"

	// Built-in material names.
	MATERIAL_NAME_OFFSCREEN string = "Material.Builtin.Offscreen"
	MATERIAL_NAME_BLIT      string = "Material.Builtin.PresentationBlit"
)

type SystemManager struct {
	cameraSystem       *CameraSystem
	resourceSystem     *ResourceSystem
	presentationSystem *PresentationSystem
	renderStageSystem  *RenderStageSystem
}

func NewSystemManager(r *renderer.Renderer, width, height uint32, presentationConfigPath string) (*SystemManager, error) {
	if presentationConfigPath == "" {
		presentationConfigPath = "assets/presentation.toml"
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
	})
	if err != nil {
		return nil, err
	}
	rs, err := NewResourceSystem(ResourceSystemConfig{
		MaxMaterialCount: 1000,
		AssetBasePath:    "assets",
	})
	if err != nil {
		return nil, err
	}
	ps, err := NewPresentationSystem(presentationConfigPath)
	if err != nil {
		return nil, err
	}
	rss, err := NewRenderStageSystem(RenderStageSystemConfig{
		MaxStageCount: 32,
	}, r, cs, ps)
	if err != nil {
		return nil, err
	}

	sm := &SystemManager{
		cameraSystem:       cs,
		resourceSystem:     rs,
		presentationSystem: ps,
		renderStageSystem:  rss,
	}
	if err := sm.registerBuiltinStages(r, width, height); err != nil {
		return nil, err
	}
	rss.OnWindowResize(width, height)

	return sm, nil
}

// registerBuiltinStages wires the default frame: an offscreen colour
// pass followed by the presentation blit. A missing blit material is
// not fatal; the presentation stage fails soft per frame instead.
func (sm *SystemManager) registerBuiltinStages(r *renderer.Renderer, width, height uint32) error {
	offscreenMaterial, err := sm.resourceSystem.AcquireMaterial(MATERIAL_NAME_OFFSCREEN, "triangle.vert", "triangle.frag")
	if err != nil {
		core.LogWarn("offscreen material unavailable: %s", err.Error())
	} else if err := r.RegisterMaterial(offscreenMaterial); err != nil {
		core.LogWarn("offscreen material rejected by backend: %s", err.Error())
	}
	offscreen := views.NewOffscreenView(offscreenMaterial)
	if err := sm.renderStageSystem.Register(STAGE_NAME_OFFSCREEN, offscreen, &metadata.RenderTargetDescriptor{
		Dimension: metadata.TARGET_DIMENSION_2D,
		Format:    metadata.TARGET_FORMAT_RGBA16_FLOAT,
		Width:     width,
		Height:    height,
	}); err != nil {
		return err
	}

	blitMaterial, err := sm.resourceSystem.AcquireMaterial(MATERIAL_NAME_BLIT, "blit.vert", "blit.frag")
	if err != nil {
		core.LogWarn("presentation blit material unavailable: %s", err.Error())
	} else if err := r.RegisterMaterial(blitMaterial); err != nil {
		core.LogWarn("presentation blit material rejected by backend: %s", err.Error())
	}
	presentation := views.NewPresentationView(blitMaterial, r.GPUClass())
	return sm.renderStageSystem.Register(STAGE_NAME_PRESENTATION, presentation, nil)
}

func (sm *SystemManager) CameraSystem() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) ResourceSystem() *ResourceSystem {
	return sm.resourceSystem
}

func (sm *SystemManager) PresentationSystem() *PresentationSystem {
	return sm.presentationSystem
}

func (sm *SystemManager) RenderStageSystem() *RenderStageSystem {
	return sm.renderStageSystem
}

func (sm *SystemManager) DrawFrame(packet *metadata.RenderPacket) error {
	return sm.renderStageSystem.DrawFrame(packet)
}

func (sm *SystemManager) OnWindowResize(width, height uint32) {
	sm.renderStageSystem.OnWindowResize(width, height)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.renderStageSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.presentationSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.resourceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
