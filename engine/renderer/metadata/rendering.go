package metadata

import (
	"github.com/google/uuid"
)

/** @brief The shape of a render target's backing image. */
type TargetDimension uint32

const (
	TARGET_DIMENSION_UNKNOWN  TargetDimension = 0x0
	TARGET_DIMENSION_2D       TargetDimension = 0x1
	TARGET_DIMENSION_CUBE     TargetDimension = 0x2
	TARGET_DIMENSION_2D_ARRAY TargetDimension = 0x3
	TARGET_DIMENSION_3D       TargetDimension = 0x4
)

/** @brief Pixel format of a render target. */
type TargetFormat uint32

const (
	TARGET_FORMAT_UNKNOWN      TargetFormat = 0x0
	TARGET_FORMAT_RGBA8_UNORM  TargetFormat = 0x1
	TARGET_FORMAT_BGRA8_UNORM  TargetFormat = 0x2
	TARGET_FORMAT_RGBA16_FLOAT TargetFormat = 0x3
)

/**
 * @brief An opaque handle to a render target owned by the renderer backend.
 * Resolved to a concrete GPU resource at submit time.
 */
type RenderTargetHandle uuid.UUID

var NilRenderTargetHandle = RenderTargetHandle(uuid.Nil)

func NewRenderTargetHandle() RenderTargetHandle {
	return RenderTargetHandle(uuid.New())
}

func (h RenderTargetHandle) IsNil() bool {
	return h == NilRenderTargetHandle
}

func (h RenderTargetHandle) String() string {
	return uuid.UUID(h).String()
}

/** @brief Describes the shape and format of a render target. */
type RenderTargetDescriptor struct {
	Dimension TargetDimension
	Format    TargetFormat
	Width     uint32
	Height    uint32
}

/**
 * @brief Whether a render target's prior contents must be fetched before
 * rendering, or may be discarded.
 */
type AttachmentLoadOperation uint32

const (
	ATTACHMENT_LOAD_OPERATION_DONT_CARE AttachmentLoadOperation = 0x0
	ATTACHMENT_LOAD_OPERATION_LOAD      AttachmentLoadOperation = 0x1
)

/** @brief Whether rendering results must be written back to the target. */
type AttachmentStoreOperation uint32

const (
	ATTACHMENT_STORE_OPERATION_DONT_CARE AttachmentStoreOperation = 0x0
	ATTACHMENT_STORE_OPERATION_STORE     AttachmentStoreOperation = 0x1
)

/**
 * @brief Coarse classification of the physical GPU, resolved once at
 * backend initialization. Tile-based parts get a clear-for-free
 * optimization on the presentation fast path.
 */
type GPUClass uint32

const (
	GPU_CLASS_UNKNOWN    GPUClass = 0x0
	GPU_CLASS_DISCRETE   GPUClass = 0x1
	GPU_CLASS_INTEGRATED GPUClass = 0x2
	GPU_CLASS_TILE_BASED GPUClass = 0x3
)

// IsTileBased reports whether avoiding tile loads pays off on this GPU.
func (c GPUClass) IsTileBased() bool {
	return c == GPU_CLASS_TILE_BASED
}

const InvalidIDUint16 uint16 = 65535
const InvalidIDUint32 uint32 = 4294967295
