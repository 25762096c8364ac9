package block

func init() {
	RegisterDefaults()
}

// RegisterDefaults регистрирует встроенные блоки
func RegisterDefaults() {
	Register(AirBlockID, NewStaticBehavior(AirBlockID, "Air", false, TexCoord{}))
	Register(StoneBlockID, NewStaticBehavior(StoneBlockID, "Stone", true, TexCoord{U: 1, V: 0}))
	Register(GrassBlockID, NewStaticBehavior(GrassBlockID, "Grass", true, TexCoord{U: 2, V: 0}))
	Register(WaterBlockID, NewStaticBehavior(WaterBlockID, "Water", false, TexCoord{U: 3, V: 0}))
	Register(SandBlockID, NewStaticBehavior(SandBlockID, "Sand", true, TexCoord{U: 4, V: 0}))
	Register(DirtBlockID, NewStaticBehavior(DirtBlockID, "Dirt", true, TexCoord{U: 5, V: 0}))

	// Стекло и листва пропускают взгляд
	Register(GlassBlockID, NewStaticBehavior(GlassBlockID, "Glass", false, TexCoord{U: 0, V: 1}))
	Register(LeavesBlockID, NewStaticBehavior(LeavesBlockID, "Leaves", false, TexCoord{U: 1, V: 1}))
}
