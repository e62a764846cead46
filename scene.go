package main

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"meshbatch/config"
	"meshbatch/core"
	"meshbatch/sim"
)

// BuildScene populates a world with a grid of spinning instances,
// alternating cubes and icospheres across the palette, and returns the
// mesh set plus the per-instance mesh assignment for the batch.
func BuildScene(settings config.SceneSettings) (*sim.World, []core.Mesh, []int) {
	rng := rand.New(rand.NewSource(42))

	// One cube and one icosphere per palette color. Colors live in the
	// vertex stream, so each color needs its own mesh; instances still
	// share geometry within a color.
	paletteLen := len(core.DefaultPalette)
	meshes := make([]core.Mesh, 0, paletteLen*2)
	for i := 0; i < paletteLen; i++ {
		meshes = append(meshes, core.Cube(1.0, core.PaletteColor(i)))
	}
	for i := 0; i < paletteLen; i++ {
		meshes = append(meshes, core.Icosphere(0.6, 2, core.PaletteColor(i)))
	}

	world := sim.NewWorld()
	var meshIndex []int

	grid := settings.GridSize
	spacing := settings.Spacing
	half := float32(grid-1) * spacing / 2

	n := 0
	for x := 0; x < grid; x++ {
		for y := 0; y < grid; y++ {
			for z := 0; z < grid; z++ {
				position := mgl32.Vec3{
					float32(x)*spacing - half,
					float32(y)*spacing - half,
					float32(z)*spacing - half,
				}
				id := world.Spawn(core.NewTransform(position))

				color := n % paletteLen
				if n%2 == 0 {
					meshIndex = append(meshIndex, color)
				} else {
					meshIndex = append(meshIndex, paletteLen+color)
				}

				world.SetSpin(id, sim.Spin{
					Axis:      randomAxis(rng),
					RadPerSec: 0.3 + rng.Float32()*1.2,
				})

				// Outer shell instances drift around the grid center.
				if x == 0 || x == grid-1 {
					world.SetOrbit(id, sim.Orbit{
						Axis:      mgl32.Vec3{0, 1, 0},
						RadPerSec: 0.05 + rng.Float32()*0.1,
					})
				}
				n++
			}
		}
	}

	return world, meshes, meshIndex
}

func randomAxis(rng *rand.Rand) mgl32.Vec3 {
	for {
		v := mgl32.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}
		if l := v.Len(); l > 0.01 && l <= 1 {
			return v.Normalize()
		}
	}
}
