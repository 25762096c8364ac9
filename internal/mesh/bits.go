package mesh

import "math/bits"

// columnMask - маска из n младших бит
func columnMask(n int) uint64 {
	return ^uint64(0) >> (64 - uint(n))
}

func lowestBit(m uint64) int {
	return bits.TrailingZeros64(m)
}

// forEachBit обходит установленные биты от младшего к старшему.
// Младший бит снимается через m &= m-1, поэтому маска с установленным
// старшим битом не переполняется.
func forEachBit(m uint64, fn func(z int)) {
	for m != 0 {
		fn(bits.TrailingZeros64(m))
		m &= m - 1
	}
}
