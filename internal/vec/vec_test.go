package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUVec3SafeSub(t *testing.T) {
	v := UVec3{X: 1, Y: 0, Z: 3}

	r, ok := v.SafeSub(UnitX)
	assert.True(t, ok)
	assert.Equal(t, UVec3{X: 0, Y: 0, Z: 3}, r)

	_, ok = v.SafeSub(UnitY)
	assert.False(t, ok, "вычитание из нулевой компоненты должно отказывать")
}

func TestUVec3Order(t *testing.T) {
	assert.True(t, UVec3{X: 0, Y: 5, Z: 5}.Less(UVec3{X: 1}))
	assert.True(t, UVec3{X: 1, Y: 0, Z: 9}.Less(UVec3{X: 1, Y: 1}))
	assert.False(t, UVec3{X: 1, Y: 1, Z: 1}.Less(UVec3{X: 1, Y: 1, Z: 1}))
}

func TestVec3Chebyshev(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	assert.Equal(t, 3, a.ChebyshevTo(Vec3{X: -3, Y: 1, Z: 2}))
	assert.Equal(t, 0, a.ChebyshevTo(a))
}
