package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 4x4 matrix, typically used to represent transformations. */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief An axis-aligned rectangle in pixels. X/Y is the origin corner,
 * W/H the size. Used for viewports and render areas.
 */
type Rect struct {
	X, Y, W, H float32
}

// UnsetRect is the sentinel for "no rectangle provided". Width and height
// are negative so it can never collide with a real (non-negative) rect.
var UnsetRect = Rect{X: -1.0, Y: -1.0, W: -1.0, H: -1.0}

func NewRect(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsUnset reports whether the rect is the UnsetRect sentinel.
func (r Rect) IsUnset() bool {
	return r.W < 0 || r.H < 0
}

func (r Rect) Equals(other Rect) bool {
	return r.X == other.X && r.Y == other.Y && r.W == other.W && r.H == other.H
}
