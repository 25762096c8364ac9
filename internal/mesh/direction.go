package mesh

import (
	"fmt"

	"github.com/annel0/voxcore/internal/vec"
)

// Direction - направление, в которое смотрит грань
type Direction uint8

const (
	DirNegZ Direction = iota // 0
	DirPosY                  // 1
	DirPosX                  // 2
	DirPosZ                  // 3
	DirNegY                  // 4
	DirNegX                  // 5
)

// NumDirections - число направлений граней
const NumDirections = 6

// Directions перечисляет все направления по порядку тегов
var Directions = [NumDirections]Direction{DirNegZ, DirPosY, DirPosX, DirPosZ, DirNegY, DirNegX}

func (d Direction) Valid() bool {
	return d < NumDirections
}

func (d Direction) String() string {
	switch d {
	case DirNegZ:
		return "-Z"
	case DirPosY:
		return "+Y"
	case DirPosX:
		return "+X"
	case DirPosZ:
		return "+Z"
	case DirNegY:
		return "-Y"
	case DirNegX:
		return "-X"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// GrowthAxes возвращает две оси в плоскости грани: вдоль первой растёт полоса,
// вдоль второй - ряды. Z-грани: {+X,+Y}, Y-грани: {+X,+Z}, X-грани: {+Y,+Z}.
func (d Direction) GrowthAxes() (vec.UVec3, vec.UVec3) {
	switch d % 3 {
	case 0:
		return vec.UnitX, vec.UnitY
	case 1:
		return vec.UnitX, vec.UnitZ
	default:
		return vec.UnitY, vec.UnitZ
	}
}
