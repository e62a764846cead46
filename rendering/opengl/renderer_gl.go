package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"meshbatch/core"
	"meshbatch/rendering/opengl/shaders"
)

// MeshRenderer owns the window, GL context, instanced shader program
// and orbit camera, and draws one MeshBatch per frame.
type MeshRenderer struct {
	window  *glfw.Window
	program *shaders.Program
	batch   *MeshBatch

	Camera *core.Camera

	width, height int
	wireframe     bool

	// Simulation control (public for main.go access)
	SpeedMultiplier float32
	Paused          bool

	// Mouse state for camera control
	mouseDown  bool
	lastMouseX float64
	lastMouseY float64
}

const (
	cameraFOV        = 45.0
	cameraNear       = 0.1
	cameraFar        = 500.0
	mouseSensitivity = 0.008
)

// NewMeshRenderer creates the window, a 4.3 core GL context and the
// instanced shader program. Must be called from the main goroutine.
func NewMeshRenderer(width, height int, title string, vsync bool) (*MeshRenderer, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version:", version)

	r := &MeshRenderer{
		window:          window,
		width:           width,
		height:          height,
		SpeedMultiplier: 1.0,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.05, 0.05, 0.1, 1.0)

	program, err := shaders.CreateInstancedProgram()
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to compile instanced shaders: %v", err)
	}
	r.program = program

	r.Camera = core.NewCamera(mgl32.Vec3{0, 0, 0}, 30)
	r.Camera.SetPerspective(cameraFOV, float32(width)/float32(height), cameraNear, cameraFar)

	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		r.onResize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.onScroll(xoff, yoff)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		r.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.onMouseMove(xpos, ypos)
	})

	return r, nil
}

// SetBatch installs the batch drawn each frame. Any previous batch is
// released.
func (r *MeshRenderer) SetBatch(batch *MeshBatch) {
	if r.batch != nil {
		r.batch.Release()
	}
	r.batch = batch
}

// Batch returns the current batch, or nil.
func (r *MeshRenderer) Batch() *MeshBatch {
	return r.batch
}

// Render draws one frame: clear, per-frame camera uniforms, the
// batch's indirect multidraw, swap.
func (r *MeshRenderer) Render() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.batch != nil {
		r.program.Use()
		r.program.SetMat4("view", r.Camera.View)
		r.program.SetMat4("projection", r.Camera.Projection)

		if r.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
		r.batch.Draw()
		if r.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		fmt.Printf("OpenGL error after draw: 0x%x\n", errCode)
	}

	r.window.SwapBuffers()
}

// ShouldClose reports whether the window close flag is set.
func (r *MeshRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// PollEvents processes pending window events.
func (r *MeshRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases GL objects, the window and GLFW.
func (r *MeshRenderer) Terminate() {
	if r.batch != nil {
		r.batch.Release()
		r.batch = nil
	}
	if r.program != nil {
		r.program.Delete()
	}
	r.window.Destroy()
	glfw.Terminate()
}

func (r *MeshRenderer) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.Camera.SetPerspective(cameraFOV, float32(width)/float32(height), cameraNear, cameraFar)
}

func (r *MeshRenderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeySpace:
		r.Paused = !r.Paused
		fmt.Printf("\nPaused: %v\n", r.Paused)
	case glfw.KeyW:
		r.wireframe = !r.wireframe
	case glfw.KeyEqual, glfw.KeyKPAdd:
		r.SpeedMultiplier *= 2
		fmt.Printf("\nSpeed: %.2fx\n", r.SpeedMultiplier)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		r.SpeedMultiplier /= 2
		fmt.Printf("\nSpeed: %.2fx\n", r.SpeedMultiplier)
	}
}

func (r *MeshRenderer) onScroll(xoff, yoff float64) {
	r.Camera.Zoom(float32(yoff) * r.Camera.Distance * 0.1)
}

func (r *MeshRenderer) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press {
		r.mouseDown = true
		r.lastMouseX, r.lastMouseY = r.window.GetCursorPos()
	} else if action == glfw.Release {
		r.mouseDown = false
	}
}

func (r *MeshRenderer) onMouseMove(xpos, ypos float64) {
	if !r.mouseDown {
		return
	}
	dx := float32(xpos - r.lastMouseX)
	dy := float32(ypos - r.lastMouseY)
	r.lastMouseX = xpos
	r.lastMouseY = ypos

	r.Camera.Orbit(-dx*mouseSensitivity, dy*mouseSensitivity)
}
