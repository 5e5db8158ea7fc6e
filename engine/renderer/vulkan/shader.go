package vulkan

import (
	"encoding/binary"
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prisma/engine/renderer/metadata"
)

/**
 * @brief Represents a single shader stage.
 */
type VulkanShaderStage struct {
	/** @brief The internal shader module handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

func NewShaderModule(context *VulkanContext, stage *metadata.ShaderStage, shaderStageFlag vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	if stage == nil || len(stage.Code) == 0 {
		return nil, fmt.Errorf("shader stage has no code")
	}
	if len(stage.Code)%4 != 0 {
		return nil, fmt.Errorf("shader stage '%s' is not word aligned", stage.Name)
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(stage.Code)),
		PCode:    bytesToWords(stage.Code),
	}
	createInfo.Deref()

	var handle vk.ShaderModule
	if err := lockPool.SafeCall(ShaderManagement, func() error {
		if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("vkCreateShaderModule failed for '%s' with %s", stage.Name, VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	out := &VulkanShaderStage{
		Handle: handle,
		ShaderStageCreateInfo: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  shaderStageFlag,
			Module: handle,
			PName:  VulkanSafeString("main"),
		},
	}
	out.ShaderStageCreateInfo.Deref()
	return out, nil
}

func (stage *VulkanShaderStage) Destroy(context *VulkanContext) {
	if stage == nil || stage.Handle == vk.NullShaderModule {
		return
	}
	lockPool.SafeCall(ShaderManagement, func() error {
		vk.DestroyShaderModule(context.Device.LogicalDevice, stage.Handle, context.Allocator)
		stage.Handle = vk.NullShaderModule
		return nil
	})
}

func bytesToWords(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words
}
