package vec

import "fmt"

// UVec3 - беззнаковая тройка координат внутри чанка.
// Используется и как позиция блока, и как вектор роста квада,
// поэтому вычитание всегда проверяется на переполнение.
type UVec3 struct {
	X uint32
	Y uint32
	Z uint32
}

// Unit-векторы осей
var (
	UnitX = UVec3{X: 1}
	UnitY = UVec3{Y: 1}
	UnitZ = UVec3{Z: 1}
)

// Add складывает покомпонентно
func (v UVec3) Add(other UVec3) UVec3 {
	return UVec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale умножает все компоненты на k
func (v UVec3) Scale(k uint32) UVec3 {
	return UVec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// SafeSub вычитает покомпонентно. Если хотя бы одна компонента ушла бы
// ниже нуля, возвращает ok == false.
func (v UVec3) SafeSub(other UVec3) (UVec3, bool) {
	if v.X < other.X || v.Y < other.Y || v.Z < other.Z {
		return UVec3{}, false
	}
	return UVec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}, true
}

// Dot - скалярное произведение, для проекции на ось роста
func (v UVec3) Dot(other UVec3) uint32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// InBounds проверяет, что все компоненты лежат в [0, n)
func (v UVec3) InBounds(n uint32) bool {
	return v.X < n && v.Y < n && v.Z < n
}

// Less задаёт лексикографический порядок (x, y, z)
func (v UVec3) Less(other UVec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

func (v UVec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}
