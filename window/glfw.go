// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package window

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/devblok/vkstart/core"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// NewGLFW opens a GLFW window without a client API.
func NewGLFW(cfg core.WindowConfiguration) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init(): %w", err)
	}

	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("glfw: vulkan loader not found")
	}

	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, resizable)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw.CreateWindow(): %w", err)
	}

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return &GLFWWindow{window: window}, nil
}

// GLFWWindow is a window backed by GLFW
type GLFWWindow struct {
	window *glfw.Window
}

// RequiredInstanceExtensions implements interface
func (w *GLFWWindow) RequiredInstanceExtensions() []string {
	return w.window.GetRequiredInstanceExtensions()
}

// ProcAddr implements interface
func (w *GLFWWindow) ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// CreateSurface implements interface
func (w *GLFWWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	srf, err := w.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("glfw.CreateWindowSurface(): %w", err)
	}
	return vk.SurfaceFromPointer(srf), nil
}

// FramebufferSize implements interface
func (w *GLFWWindow) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

// PollEvents implements interface
func (w *GLFWWindow) PollEvents() bool {
	glfw.PollEvents()
	return !w.window.ShouldClose()
}

// Destroy implements interface
func (w *GLFWWindow) Destroy() {
	w.window.Destroy()
	glfw.Terminate()
}
