// Package export сохраняет меши чанков в glTF для просмотра во внешних редакторах
package export

import (
	"fmt"

	"github.com/annel0/voxcore/internal/mesh"
	"github.com/annel0/voxcore/internal/world/block"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var palette = map[block.BlockID][4]float32{
	block.StoneBlockID:  {0.50, 0.50, 0.50, 1},
	block.GrassBlockID:  {0.36, 0.62, 0.25, 1},
	block.WaterBlockID:  {0.20, 0.40, 0.85, 0.6},
	block.SandBlockID:   {0.86, 0.80, 0.55, 1},
	block.DirtBlockID:   {0.48, 0.33, 0.20, 1},
	block.GlassBlockID:  {0.80, 0.90, 0.95, 0.3},
	block.LeavesBlockID: {0.18, 0.45, 0.15, 1},
}

// Color возвращает цвет блока для экспорта; неизвестные блоки - пурпурные
func Color(id block.BlockID) [4]float32 {
	if c, ok := palette[id]; ok {
		return c
	}
	return [4]float32{1, 0, 1, 1}
}

// Normal возвращает нормаль грани направления d
func Normal(d mesh.Direction) [3]float32 {
	switch d {
	case mesh.DirNegZ:
		return [3]float32{0, 0, -1}
	case mesh.DirPosY:
		return [3]float32{0, 1, 0}
	case mesh.DirPosX:
		return [3]float32{1, 0, 0}
	case mesh.DirPosZ:
		return [3]float32{0, 0, 1}
	case mesh.DirNegY:
		return [3]float32{0, -1, 0}
	default:
		return [3]float32{-1, 0, 0}
	}
}

// Document собирает glTF-документ из квадов чанка. Вершины проходят через
// кодировщик и обратно, поэтому файл показывает ровно то, что ушло бы в буфер.
func Document(quads [mesh.NumDirections][]mesh.Quad, enc *mesh.Encoder) (*gltf.Document, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		colors    [][4]float32
		hasAlpha  bool
	)

	for _, d := range mesh.Directions {
		n := Normal(d)
		for _, q := range quads[d] {
			verts, err := enc.QuadVertices(q)
			if err != nil {
				return nil, fmt.Errorf("quad %s-%s: %w", q.Min, q.Max, err)
			}
			c := Color(q.Block)
			if c[3] < 1 {
				hasAlpha = true
			}
			for _, v := range verts {
				x, y, z := enc.Decode(v)
				positions = append(positions, [3]float32{float32(x), float32(y), float32(z)})
				normals = append(normals, n)
				colors = append(colors, c)
			}
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxcore meshdump"
	if len(positions) == 0 {
		return doc, nil
	}

	indices := make([]uint32, len(positions))
	for i := range indices {
		indices[i] = uint32(i)
	}

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
			gltf.COLOR_0:  colorAccessor,
		},
		Indices: gltf.Index(indicesAccessor),
	}

	material := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	prim.Material = gltf.Index(0)

	doc.Meshes = []*gltf.Mesh{{Name: "ChunkMesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// SaveGLB сохраняет квады в бинарный glTF
func SaveGLB(path string, quads [mesh.NumDirections][]mesh.Quad, enc *mesh.Encoder) error {
	doc, err := Document(quads, enc)
	if err != nil {
		return err
	}
	return gltf.SaveBinary(doc, path)
}
