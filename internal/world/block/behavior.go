package block

// TexCoord - координаты тайла в текстурном атласе
type TexCoord struct {
	U uint8
	V uint8
}

// BlockBehavior определяет свойства блока, нужные генерации геометрии
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// IsSolid - участвует ли блок в отсечении граней и заполнении пустоты
	IsSolid() bool
	Texture() TexCoord
}

// staticBehavior - неизменяемое описание блока без собственной логики
type staticBehavior struct {
	id      BlockID
	name    string
	solid   bool
	texture TexCoord
}

// NewStaticBehavior создаёт описание блока с фиксированными свойствами
func NewStaticBehavior(id BlockID, name string, solid bool, texture TexCoord) BlockBehavior {
	return &staticBehavior{id: id, name: name, solid: solid, texture: texture}
}

func (b *staticBehavior) ID() BlockID       { return b.id }
func (b *staticBehavior) Name() string      { return b.name }
func (b *staticBehavior) IsSolid() bool     { return b.solid }
func (b *staticBehavior) Texture() TexCoord { return b.texture }
