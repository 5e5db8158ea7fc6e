package metadata

/**
 * @brief A shader switch toggled at command-recording time. A fixed
 * enumeration instead of ad hoc string identifiers: the set is closed,
 * resolved once, and immune to typo-class bugs.
 */
type ShaderKeyword uint32

const (
	// Highlight NaN, Inf and negative pixel values.
	SHADER_KEYWORD_HIGHLIGHT_INVALID_VALUES ShaderKeyword = iota
	// Highlight pixel values outside a configured numeric range.
	SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE
	// Also consider alpha when range-highlighting. Only meaningful while
	// SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE is enabled.
	SHADER_KEYWORD_HIGHLIGHT_ALPHA_OUTSIDE_RANGE
	// Convert linear output to sRGB for the destination.
	SHADER_KEYWORD_LINEAR_TO_SRGB
	// Force the output alpha channel fully opaque.
	SHADER_KEYWORD_KILL_ALPHA

	SHADER_KEYWORD_MAX
)

func (k ShaderKeyword) String() string {
	switch k {
	case SHADER_KEYWORD_HIGHLIGHT_INVALID_VALUES:
		return "HIGHLIGHT_INVALID_VALUES"
	case SHADER_KEYWORD_HIGHLIGHT_OUTSIDE_RANGE:
		return "HIGHLIGHT_OUTSIDE_RANGE"
	case SHADER_KEYWORD_HIGHLIGHT_ALPHA_OUTSIDE_RANGE:
		return "HIGHLIGHT_ALPHA_OUTSIDE_RANGE"
	case SHADER_KEYWORD_LINEAR_TO_SRGB:
		return "LINEAR_TO_SRGB"
	case SHADER_KEYWORD_KILL_ALPHA:
		return "KILL_ALPHA"
	}
	return "UNKNOWN"
}
