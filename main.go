package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"meshbatch/config"
	"meshbatch/rendering/opengl"
)

func main() {
	runtime.LockOSThread()

	var (
		settingsPath = flag.String("settings", "settings.json", "Path to settings file")
		width        = flag.Int("width", 0, "Window width (overrides settings)")
		height       = flag.Int("height", 0, "Window height (overrides settings)")
		gridSize     = flag.Int("grid", 0, "Instances per grid edge (overrides settings)")
		serve        = flag.Bool("serve", false, "Start the websocket control server")
	)
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *width > 0 {
		settings.Window.Width = *width
	}
	if *height > 0 {
		settings.Window.Height = *height
	}
	if *gridSize > 0 {
		settings.Scene.GridSize = *gridSize
	}

	instances := settings.Scene.GridSize * settings.Scene.GridSize * settings.Scene.GridSize
	fmt.Println("=== Instanced Mesh Batch Viewer ===")
	fmt.Printf("Window: %dx%d\n", settings.Window.Width, settings.Window.Height)
	fmt.Printf("Instances: %d (%d per edge)\n", instances, settings.Scene.GridSize)

	world, meshes, meshIndex := BuildScene(settings.Scene)

	renderer, err := opengl.NewMeshRenderer(
		settings.Window.Width, settings.Window.Height,
		settings.Window.Title, settings.Window.VSync,
	)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()

	// Batch construction needs the GL context the renderer created.
	transforms := world.Matrices(nil)
	batch, err := opengl.NewMeshBatch(meshes, meshIndex, transforms)
	if err != nil {
		log.Fatalf("Failed to build mesh batch: %v", err)
	}
	renderer.SetBatch(batch)

	// Frame the whole grid.
	gridExtent := float32(settings.Scene.GridSize) * settings.Scene.Spacing
	renderer.Camera.Distance = gridExtent * 2
	renderer.Camera.Orbit(0.5, 0.4)

	controls := NewControls()
	if *serve {
		go startServer(settings.Server, world, controls)
	}

	fmt.Println("\nControls:")
	fmt.Println("  Mouse: Click and drag to orbit")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  Space: Pause, W: Wireframe, +/-: Speed, ESC: Exit")
	fmt.Println()

	lastTime := time.Now()
	frameCount := 0
	lastFPSTime := time.Now()

	for !renderer.ShouldClose() {
		renderer.PollEvents()

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if !renderer.Paused && !controls.Paused() {
			speed := float64(renderer.SpeedMultiplier * controls.Speed())
			world.Step(dt * speed)
		}

		transforms = world.Matrices(transforms)
		if err := batch.UploadTransforms(transforms); err != nil {
			log.Fatalf("Transform upload failed: %v", err)
		}

		renderer.Render()

		frameCount++
		if now.Sub(lastFPSTime).Seconds() >= 1.0 {
			fps := float64(frameCount) / now.Sub(lastFPSTime).Seconds()
			controls.SetFPS(fps)
			fmt.Printf("\rFPS: %.1f | Sim Time: %.1fs", fps, world.Time())
			frameCount = 0
			lastFPSTime = now
		}
	}

	fmt.Println("\nShutting down...")
}
