package block

import "sync"

var (
	registryMu sync.RWMutex
	registry   = make(map[BlockID]BlockBehavior)
)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := Get(id)
	return exists
}

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
	GrassBlockID                // 2
	WaterBlockID                // 3
	SandBlockID                 // 4
	DirtBlockID                 // 5

	// Прозрачные блоки (начиная с 100)
	GlassBlockID  BlockID = 100
	LeavesBlockID BlockID = 101
)

// IsSolid сообщает, является ли блок твёрдым (непрозрачным).
// Незарегистрированные ID считаются пустыми.
func (id BlockID) IsSolid() bool {
	behavior, exists := Get(id)
	if !exists {
		return false
	}
	return behavior.IsSolid()
}

// Texture возвращает тайл атласа для блока. Для незарегистрированных ID - (0,0).
func (id BlockID) Texture() TexCoord {
	behavior, exists := Get(id)
	if !exists {
		return TexCoord{}
	}
	return behavior.Texture()
}

// Name возвращает имя блока или "unknown"
func (id BlockID) Name() string {
	behavior, exists := Get(id)
	if !exists {
		return "unknown"
	}
	return behavior.Name()
}
