// Package allocator управляет линейным регионом фиксированной ёмкости
// (например, GPU-буфером вершин): выделяет и освобождает непрерывные участки.
package allocator

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrOutOfSpace - ни один свободный участок не вмещает запрос. Ожидаемая,
	// восстановимая ситуация: вызывающий пропускает или откладывает размещение.
	ErrOutOfSpace = errors.New("allocator: out of space")
	// ErrInvalidLength - запрос нулевой длины
	ErrInvalidLength = errors.New("allocator: invalid length")
	// ErrUnknownOffset - освобождение адреса, который не был выделен. Ошибка вызывающего.
	ErrUnknownOffset = errors.New("allocator: unknown offset")
)

// Space - непрерывный участок [Offset, Offset+Length)
type Space struct {
	Offset uint64
	Length uint64
}

// End возвращает первый адрес после участка
func (s Space) End() uint64 {
	return s.Offset + s.Length
}

// Allocator - список свободных участков с выбором по наилучшему совпадению.
// Свободные и занятые участки не пересекаются и вместе покрывают [0, capacity).
// Соседние свободные участки всегда слиты. Все методы безопасны для
// параллельного вызова.
type Allocator struct {
	mu       sync.Mutex
	capacity uint64
	used     uint64
	free     []Space
	occupied []Space
}

// New создаёт аллокатор на capacity единиц
func New(capacity uint64) *Allocator {
	a := &Allocator{capacity: capacity}
	if capacity > 0 {
		a.free = []Space{{Offset: 0, Length: capacity}}
	}
	return a
}

// Alloc выделяет участок длины length и возвращает его смещение.
// Выбирается свободный участок с наименьшим остатком; при равенстве - первый.
func (a *Allocator) Alloc(length uint64) (uint64, error) {
	if length == 0 {
		return 0, ErrInvalidLength
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	best := -1
	var bestLeft uint64
	for i, f := range a.free {
		if f.Length < length {
			continue
		}
		left := f.Length - length
		if best < 0 || left < bestLeft {
			best, bestLeft = i, left
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: requested %d, %d of %d in use", ErrOutOfSpace, length, a.used, a.capacity)
	}

	chosen := a.free[best]
	a.free = append(a.free[:best], a.free[best+1:]...)
	if bestLeft > 0 {
		a.free = append(a.free, Space{Offset: chosen.Offset + length, Length: bestLeft})
	}

	a.occupied = append(a.occupied, Space{Offset: chosen.Offset, Length: length})
	a.used += length
	return chosen.Offset, nil
}

// Dealloc освобождает участок, выделенный по смещению offset, и сливает его
// с соседними свободными участками.
func (a *Allocator) Dealloc(offset uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := -1
	for i, o := range a.occupied {
		if o.Offset == offset {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownOffset, offset)
	}

	space := a.occupied[idx]
	a.occupied = append(a.occupied[:idx], a.occupied[idx+1:]...)
	a.used -= space.Length

	merged := a.mergeInto(space, -1)
	if merged < 0 {
		a.free = append(a.free, space)
		return nil
	}

	// Выросший участок мог коснуться второго соседа с другой стороны
	grown := a.free[merged]
	if other := a.mergeInto(grown, merged); other >= 0 {
		a.free = append(a.free[:merged], a.free[merged+1:]...)
	}
	return nil
}

// mergeInto сливает s с первым смежным свободным участком (кроме skip)
// и возвращает его индекс, либо -1.
func (a *Allocator) mergeInto(s Space, skip int) int {
	for i := range a.free {
		if i == skip {
			continue
		}
		f := &a.free[i]
		if f.End() == s.Offset {
			f.Length += s.Length
			return i
		}
		if s.End() == f.Offset {
			f.Offset = s.Offset
			f.Length += s.Length
			return i
		}
	}
	return -1
}

// PercentFull возвращает долю занятой ёмкости в [0, 1]
func (a *Allocator) PercentFull() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.capacity == 0 {
		return 0
	}
	return float64(a.used) / float64(a.capacity)
}

// Capacity возвращает общую ёмкость
func (a *Allocator) Capacity() uint64 {
	return a.capacity
}

// Used возвращает суммарную длину занятых участков
func (a *Allocator) Used() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.used
}

// FreeSpaces возвращает копию списка свободных участков
func (a *Allocator) FreeSpaces() []Space {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Space, len(a.free))
	copy(out, a.free)
	return out
}

// OccupiedSpaces возвращает копию списка занятых участков
func (a *Allocator) OccupiedSpaces() []Space {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Space, len(a.occupied))
	copy(out, a.occupied)
	return out
}
