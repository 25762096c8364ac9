package main

import (
	"flag"
	"log"

	"github.com/annel0/voxcore/internal/export"
	"github.com/annel0/voxcore/internal/logging"
	"github.com/annel0/voxcore/internal/mesh"
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/visibility"
	"github.com/annel0/voxcore/internal/world"
)

func main() {
	var (
		out   = flag.String("out", "chunk.glb", "Output .glb path")
		seed  = flag.Int64("seed", 1, "Generator seed")
		size  = flag.Int("size", world.DefaultChunkSize, "Chunk edge length")
		x     = flag.Int("x", 0, "Chunk X")
		y     = flag.Int("y", 0, "Chunk Y")
		z     = flag.Int("z", 0, "Chunk Z")
		debug = flag.Bool("debug", false, "Log cull/merge timings")
	)
	flag.Parse()

	level := logging.INFO
	if *debug {
		level = logging.DEBUG
	}
	logging.SetDefaultLogger(logging.NewWriterLogger("meshdump", log.Writer(), level))

	coords := vec.Vec3{X: *x, Y: *y, Z: *z}
	chunk, err := world.NewGenerator(*seed, *size).GenerateChunk(coords)
	if err != nil {
		log.Fatalf("❌ Ошибка генерации чанка: %v", err)
	}

	mesher, err := mesh.NewMesher(*size)
	if err != nil {
		log.Fatalf("❌ Ошибка создания мешера: %v", err)
	}
	quads, err := mesher.Quads(chunk)
	if err != nil {
		log.Fatalf("❌ Ошибка построения квадов: %v", err)
	}

	total := 0
	for _, d := range mesh.Directions {
		logging.Info("%s: %d квадов", d, len(quads[d]))
		total += len(quads[d])
	}

	graph := visibility.FromChunk(chunk)
	logging.Info("Чанк %s: %d твёрдых блоков, %d квадов, %d связей сторон", coords, chunk.CountSolid(), total, graph.Connections())
	logging.Debug("Граф видимости:\n%s", graph)

	if err := export.SaveGLB(*out, quads, mesher.Encoder()); err != nil {
		log.Fatalf("❌ Ошибка записи %s: %v", *out, err)
	}
	logging.Info("✅ Меш сохранён в %s", *out)
}
