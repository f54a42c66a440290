package main

import (
	"ftb-render/internal/config"
	"ftb-render/internal/graphics/gpu/opengl"
	"ftb-render/internal/graphics/renderer"
	"ftb-render/internal/input"
	"ftb-render/internal/viewer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	windowWidth  = 960
	windowHeight = 600
)

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "ftb-viewer", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	glfw.SwapInterval(0)

	return window, nil
}

func runWindowed(settings *config.RenderSettings, opts viewer.SceneOptions, frames int, exitC <-chan struct{}) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		return err
	}
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return err
	}
	dev, err := opengl.New()
	if err != nil {
		return err
	}
	defer dev.Dispose()

	r, err := renderer.New(dev, settings, nil)
	if err != nil {
		return err
	}
	defer r.Close()
	r.Resize(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		r.Resize(w, h)
	})

	scene := viewer.NewScene(opts)
	if err := r.Add(scene); err != nil {
		return err
	}

	im := input.NewInputManager()
	im.SetKeyCallback(window)

	loop := newViewLoop(r, scene, frames)
	for !window.ShouldClose() {
		select {
		case <-exitC:
			return nil
		default:
		}

		glfw.PollEvents()
		if im.JustPressed(input.ActionQuit) {
			window.SetShouldClose(true)
		}
		loop.handleInput(im)
		im.PostUpdate()

		if !loop.tick() {
			break
		}
		window.SwapBuffers()
	}
	return nil
}
