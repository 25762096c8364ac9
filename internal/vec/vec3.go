package vec

import "fmt"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется для координат чанков в мире.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// ChebyshevTo возвращает расстояние Чебышёва (максимум по осям) до другого вектора.
// Куб радиуса r вокруг центра - это все точки с ChebyshevTo <= r.
func (v Vec3) ChebyshevTo(other Vec3) int {
	d := v.Sub(other)
	return max(abs(d.X), abs(d.Y), abs(d.Z))
}

// Less задаёт лексикографический порядок (x, y, z)
func (v Vec3) Less(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
