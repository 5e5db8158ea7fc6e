package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectUnsetSentinel(t *testing.T) {
	assert.True(t, UnsetRect.IsUnset())
	assert.False(t, NewRect(0, 0, 0, 0).IsUnset(), "a zero rect is set, just empty")
	assert.False(t, NewRect(10, 20, 640, 480).IsUnset())

	assert.True(t, NewRect(1, 2, 3, 4).Equals(NewRect(1, 2, 3, 4)))
	assert.False(t, NewRect(1, 2, 3, 4).Equals(NewRect(1, 2, 3, 5)))
}

func TestMat4IdentityMul(t *testing.T) {
	identity := NewMat4Identity()
	assert.Equal(t, identity, identity.Mul(identity))

	translation := NewMat4Translation(NewVec3(5, -3, 2))
	assert.Equal(t, translation, identity.Mul(translation))
	assert.Equal(t, translation, translation.Mul(identity))
}

func TestMat4TranslationInverse(t *testing.T) {
	translation := NewMat4Translation(NewVec3(7, 11, -4))
	roundTrip := translation.Mul(translation.Inverse())

	identity := NewMat4Identity()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, identity.Data[i], roundTrip.Data[i], 1e-5)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(42, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0.0, 1.0))
}

func TestVec4Compare(t *testing.T) {
	a := NewVec4(1, 2, 3, 4)
	b := NewVec4(1.0001, 2, 3, 4)
	assert.True(t, a.Compare(b, 0.001))
	assert.False(t, a.Compare(b, 0.00001))
	assert.Equal(t, NewVec4(0, 0, 0, 1), NewVec4Black())
}
