package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise оборачивает генератор шума Перлина с фиксированным сидом.
// После создания только читается, поэтому безопасен для параллельных воркеров.
type Noise struct {
	p *perlin.Perlin
}

// NewNoise создаёт генератор шума Перлина с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума для указанных координат (от 0 до 1)
func (n *Noise) Noise2D(x, y float64) float64 {
	return clamp01((n.p.Noise2D(x, y) + 1.0) / 2.0)
}

// Noise3D возвращает значение объёмного шума (от 0 до 1)
func (n *Noise) Noise3D(x, y, z float64) float64 {
	return clamp01((n.p.Noise3D(x, y, z) + 1.0) / 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
