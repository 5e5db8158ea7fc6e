package metadata

/** @brief A compiled shader stage blob (SPIR-V). */
type ShaderStage struct {
	Name string
	// SPIR-V words as raw bytes, as produced by the shader loader.
	Code []byte
}

/**
 * @brief A shader program composed of its compiled stages. The blit
 * shader samples a bound source texture and applies whatever transforms
 * the enabled shader keywords select.
 */
type Shader struct {
	ID       uint32
	Name     string
	Vertex   *ShaderStage
	Fragment *ShaderStage
}

/**
 * @brief A material pairing a shader with the keyword state it supports.
 * The presentation blit stage requires one of these at construction;
 * its absence is the recognized missing-resource runtime state.
 */
type Material struct {
	ID     uint32
	Name   string
	Shader *Shader
}

// IsValid reports whether the material can be used for a draw.
func (m *Material) IsValid() bool {
	return m != nil && m.Shader != nil && m.Shader.Vertex != nil && m.Shader.Fragment != nil
}
