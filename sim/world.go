package sim

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"meshbatch/core"
)

// Spin rotates an instance around an axis at a constant angular rate.
// A zero rate means no spin.
type Spin struct {
	Axis      mgl32.Vec3
	RadPerSec float32
}

// Orbit revolves an instance around a center point. The instance's
// home position defines the orbit radius and phase; a zero rate means
// no orbit.
type Orbit struct {
	Center    mgl32.Vec3
	Axis      mgl32.Vec3
	RadPerSec float32
}

// World holds the per-instance state driving the transform table: one
// transform per instance plus optional spin and orbit components,
// stored as parallel slices indexed by instance ID.
//
// Step writes and Matrices reads under the world lock, so the renderer
// and a control server can observe the world while it advances.
type World struct {
	mu         sync.RWMutex
	transforms []core.Transform
	homes      []mgl32.Vec3 // orbit reference positions
	spins      []Spin
	orbits     []Orbit
	time       float64
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// Spawn adds an instance with the given transform and returns its ID.
// IDs are dense and double as draw IDs in the render batch.
func (w *World) Spawn(t core.Transform) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transforms = append(w.transforms, t)
	w.homes = append(w.homes, t.Position)
	w.spins = append(w.spins, Spin{})
	w.orbits = append(w.orbits, Orbit{})
	return len(w.transforms) - 1
}

// SetSpin attaches a spin component to an instance.
func (w *World) SetSpin(id int, s Spin) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spins[id] = s
}

// SetOrbit attaches an orbit component to an instance.
func (w *World) SetOrbit(id int, o Orbit) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.orbits[id] = o
}

// Len returns the number of instances.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.transforms)
}

// Time returns the accumulated simulation time in seconds.
func (w *World) Time() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.time
}

// Transform returns a copy of an instance's transform.
func (w *World) Transform(id int) core.Transform {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.transforms[id]
}

// Step advances every instance by dt seconds. Instances are
// independent, so the update is split into per-worker ranges.
func (w *World) Step(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.time += dt

	n := len(w.transforms)
	if n == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		w.stepRange(0, n, dt)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			w.stepRange(start, end, dt)
		}(start, end)
	}
	wg.Wait()
}

func (w *World) stepRange(start, end int, dt float64) {
	for i := start; i < end; i++ {
		if s := w.spins[i]; s.RadPerSec != 0 {
			w.transforms[i].Rotate(mgl32.QuatRotate(s.RadPerSec*float32(dt), s.Axis.Normalize()))
		}
		if o := w.orbits[i]; o.RadPerSec != 0 {
			angle := float32(w.time) * o.RadPerSec
			rot := mgl32.QuatRotate(angle, o.Axis.Normalize())
			offset := w.homes[i].Sub(o.Center)
			w.transforms[i].Position = o.Center.Add(rot.Rotate(offset))
		}
	}
}

// Matrices fills dst with the current transform table, one matrix per
// instance in ID order. It appends if dst is short and returns the
// table ready for an SSBO upload.
func (w *World) Matrices(dst []mgl32.Mat4) []mgl32.Mat4 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if cap(dst) < len(w.transforms) {
		dst = make([]mgl32.Mat4, len(w.transforms))
	}
	dst = dst[:len(w.transforms)]
	for i := range w.transforms {
		dst[i] = w.transforms[i].Mat4()
	}
	return dst
}
