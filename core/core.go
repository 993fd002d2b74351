// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core brings up a Vulkan instance, device and swapchain for a window.
package core

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// package errors
var (
	ErrNoDevices             = errors.New("failed to find GPUs with Vulkan support")
	ErrNoSuitableDevice      = errors.New("failed to find a suitable GPU")
	ErrValidationUnavailable = errors.New("validation layers requested, but not available")
	ErrExtensionUnavailable  = errors.New("required extension not available")
	ErrNoSurfaceFormats      = errors.New("surface reports no formats")
	ErrIncompleteQueues      = errors.New("device lacks graphics or present queue family")
)

// Window is a native window that Vulkan can present to.
type Window interface {
	// RequiredInstanceExtensions returns the instance extensions
	// needed to create a surface for this window
	RequiredInstanceExtensions() []string

	// ProcAddr returns vkGetInstanceProcAddr as loaded by the window
	// library, nil means the default loader should be used
	ProcAddr() unsafe.Pointer

	// CreateSurface creates the presentation surface for the window
	CreateSurface(instance vk.Instance) (vk.Surface, error)

	// FramebufferSize returns the drawable size in pixels
	FramebufferSize() (int, int)

	// PollEvents processes pending events and reports
	// false once the window was asked to close
	PollEvents() bool

	// Destroy destroys the window
	Destroy()
}

// Destroyable is anything holding native handles.
type Destroyable interface {
	Destroy()
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Type          string
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        uint
}
