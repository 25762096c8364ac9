package visibility

import (
	"fmt"

	"github.com/annel0/voxcore/internal/vec"
)

// Side - одна из шести внешних сторон чанка
type Side uint8

const (
	Front  Side = iota // z = 0
	Back               // z = N-1
	Top                // y = N-1
	Bottom             // y = 0
	Left               // x = N-1
	Right              // x = 0
)

// NumSides - число сторон чанка
const NumSides = 6

// Sides перечисляет стороны в порядке индексов матрицы
var Sides = [NumSides]Side{Front, Back, Top, Bottom, Left, Right}

// Opposite возвращает противоположную сторону
func (s Side) Opposite() Side {
	switch s {
	case Front:
		return Back
	case Back:
		return Front
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// Normal возвращает единичный вектор, направленный внутрь чанка через сторону s
func (s Side) Normal() vec.Vec3 {
	switch s {
	case Front:
		return vec.Vec3{Z: 1}
	case Back:
		return vec.Vec3{Z: -1}
	case Top:
		return vec.Vec3{Y: 1}
	case Bottom:
		return vec.Vec3{Y: -1}
	case Left:
		return vec.Vec3{X: -1}
	default:
		return vec.Vec3{X: 1}
	}
}

func (s Side) String() string {
	switch s {
	case Front:
		return "FRONT"
	case Back:
		return "BACK"
	case Top:
		return "TOP"
	case Bottom:
		return "BOTTOM"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}
