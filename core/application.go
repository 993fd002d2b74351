// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// WindowFactory opens the native window the application presents to.
type WindowFactory func(cfg WindowConfiguration) (Window, error)

// NewApplication creates an application that is not yet initialised.
func NewApplication(cfg Configuration, newWindow WindowFactory) *Application {
	return &Application{
		configuration: cfg,
		newWindow:     newWindow,
	}
}

// Application owns the window and every Vulkan object presenting to it.
type Application struct {
	configuration Configuration
	newWindow     WindowFactory

	window    Window
	instance  *VulkanInstance
	debugHook *DebugHook
	surface   vk.Surface
	device    *VulkanDevice
	swapchain *VulkanSwapchain

	teardown Teardown
}

type step struct {
	name string

	// create builds the object and returns how to release it,
	// a nil release means nothing was created
	create func() (release func(), err error)
}

// runSequence runs the steps in order, recording each release. When a
// step fails everything created so far is released, newest first.
func runSequence(steps []step, teardown *Teardown) error {
	for _, s := range steps {
		release, err := s.create()
		if err != nil {
			teardown.Release()
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if release != nil {
			teardown.Push(s.name, release)
			log.WithField("step", s.name).Debug("created")
		}
	}
	return nil
}

func (a *Application) steps() []step {
	return []step{
		{"window", a.createWindow},
		{"instance", a.createInstance},
		{"debug hook", a.createDebugHook},
		{"surface", a.createSurface},
		{"device", a.createDevice},
		{"swapchain", a.createSwapchain},
		{"image views", a.createImageViews},
	}
}

// Initialise brings up the window and Vulkan in dependency order.
func (a *Application) Initialise() error {
	if err := runSequence(a.steps(), &a.teardown); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"device":       a.device.Name(),
		"images":       len(a.swapchain.Images()),
		"width":        a.swapchain.Extent().Width,
		"height":       a.swapchain.Extent().Height,
		"present mode": a.swapchain.PresentMode(),
	}).Info("vulkan initialised")
	return nil
}

func (a *Application) createWindow() (func(), error) {
	w, err := a.newWindow(a.configuration.Window)
	if err != nil {
		return nil, err
	}
	a.window = w
	return w.Destroy, nil
}

func (a *Application) createInstance() (func(), error) {
	instance, err := NewVulkanInstance(a.window.ProcAddr(), a.window.RequiredInstanceExtensions(), a.configuration.Instance)
	if err != nil {
		return nil, err
	}
	a.instance = instance
	return instance.Destroy, nil
}

func (a *Application) createDebugHook() (func(), error) {
	if !a.configuration.Instance.Validation {
		return nil, nil
	}
	hook, err := NewDebugHook(a.instance.Instance(), log.StandardLogger())
	if err != nil {
		return nil, err
	}
	a.debugHook = hook
	return hook.Destroy, nil
}

func (a *Application) createSurface() (func(), error) {
	surface, err := a.window.CreateSurface(a.instance.Instance())
	if err != nil {
		return nil, err
	}
	a.surface = surface
	instance := a.instance.Instance()
	return func() { vk.DestroySurface(instance, surface, nil) }, nil
}

func (a *Application) createDevice() (func(), error) {
	candidate, err := SelectPhysicalDevice(a.instance.AvailableDevices(), a.surface, a.configuration.Device)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"device": candidate.Name,
		"type":   DeviceTypeName(candidate.Properties.DeviceType),
	}).Info("physical device selected")

	device, err := NewVulkanDevice(candidate, a.configuration.Device, a.instance.Layers())
	if err != nil {
		return nil, err
	}
	a.device = device
	return device.Destroy, nil
}

func (a *Application) createSwapchain() (func(), error) {
	width, height := a.window.FramebufferSize()
	swapchain, err := NewVulkanSwapchain(a.device, a.surface, width, height, a.configuration.Swapchain)
	if err != nil {
		return nil, err
	}
	a.swapchain = swapchain
	return swapchain.Destroy, nil
}

func (a *Application) createImageViews() (func(), error) {
	if err := a.swapchain.CreateImageViews(); err != nil {
		return nil, err
	}
	return a.swapchain.DestroyImageViews, nil
}

// Run polls window events until the window closes or ctx is done.
func (a *Application) Run(ctx context.Context) error {
	timeService := NewTime(a.configuration.Time)
	defer timeService.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("event loop cancelled")
			return ctx.Err()
		case <-timeService.EventTicker().C:
			if !a.window.PollEvents() {
				log.Info("event loop exited")
				return nil
			}
		}
	}
}

// Destroy releases everything Initialise created, in reverse order.
func (a *Application) Destroy() {
	a.teardown.Release()
}
