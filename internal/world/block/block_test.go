package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinSolidity(t *testing.T) {
	assert.False(t, AirBlockID.IsSolid(), "воздух не должен быть твёрдым")
	assert.True(t, StoneBlockID.IsSolid())
	assert.True(t, DirtBlockID.IsSolid())
	assert.False(t, WaterBlockID.IsSolid())
	assert.False(t, GlassBlockID.IsSolid())
}

func TestUnknownBlock(t *testing.T) {
	unknown := BlockID(4242)

	assert.False(t, IsValidBlockID(unknown))
	assert.False(t, unknown.IsSolid())
	assert.Equal(t, TexCoord{}, unknown.Texture())
	assert.Equal(t, "unknown", unknown.Name())
}

func TestRegisterCustomBlock(t *testing.T) {
	id := BlockID(3000)
	Register(id, NewStaticBehavior(id, "Obsidian", true, TexCoord{U: 7, V: 2}))

	assert.True(t, id.IsSolid())
	assert.Equal(t, TexCoord{U: 7, V: 2}, id.Texture())
	assert.Equal(t, "Obsidian", id.Name())
}
