// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// QueryCandidate learns everything device selection needs about a
// physical device presenting to surface.
func QueryCandidate(device vk.PhysicalDevice, surface vk.Surface, requiredExtensions []string) DeviceCandidate {
	properties := physicalDeviceProperties(device)
	candidate := DeviceCandidate{
		Device:     device,
		Properties: properties,
		Name:       vk.ToString(properties.DeviceName[:]),
	}

	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &familyCount, families)
	for i := range families {
		families[i].Deref()
	}

	candidate.Indices = FindQueueFamilies(families, func(idx uint32) bool {
		var supported vk.Bool32
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(device, idx, surface, &supported)); err != nil {
			log.WithFields(log.Fields{
				"device": candidate.Name,
				"family": idx,
			}).Warn("querying surface support: " + err.Error())
			return false
		}
		return supported.B()
	})
	if !candidate.Indices.IsComplete() {
		candidate.Reason = ErrIncompleteQueues.Error()
		return candidate
	}

	available, err := availableDeviceExtensions(device)
	if err != nil {
		candidate.Reason = "vk.EnumerateDeviceExtensionProperties(): " + err.Error()
		return candidate
	}
	if missing := MissingNames(requiredExtensions, available); len(missing) > 0 {
		candidate.Reason = fmt.Sprintf("missing device extensions %v", missing)
		return candidate
	}

	support, err := QuerySwapchainSupport(device, surface)
	if err != nil {
		candidate.Reason = err.Error()
		return candidate
	}
	candidate.Support = support
	if !support.Adequate() {
		candidate.Reason = "surface offers no formats or present modes"
		return candidate
	}

	candidate.Suitable = true
	return candidate
}

// QuerySwapchainSupport asks the surface what it offers to device.
func QuerySwapchainSupport(device vk.PhysicalDevice, surface vk.Surface) (SwapchainSupport, error) {
	var details SwapchainSupport

	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities)); err != nil {
		return details, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	details.Capabilities = capabilities

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)); err != nil {
		return details, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	if formatCount > 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, formats)); err != nil {
			return details, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
		}
		for _, f := range formats[:formatCount] {
			f.Deref()
			details.Formats = append(details.Formats, f)
		}
	}

	var modeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &modeCount, nil)); err != nil {
		return details, errors.New("vk.GetPhysicalDeviceSurfacePresentModes(): " + err.Error())
	}
	if modeCount > 0 {
		modes := make([]vk.PresentMode, modeCount)
		if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &modeCount, modes)); err != nil {
			return details, errors.New("vk.GetPhysicalDeviceSurfacePresentModes(): " + err.Error())
		}
		details.PresentModes = modes[:modeCount]
	}

	return details, nil
}

// SelectPhysicalDevice evaluates every device against the surface and
// returns the chosen one.
func SelectPhysicalDevice(devices []vk.PhysicalDevice, surface vk.Surface, cfg DeviceConfiguration) (DeviceCandidate, error) {
	candidates := make([]DeviceCandidate, 0, len(devices))
	for _, d := range devices {
		c := QueryCandidate(d, surface, cfg.Extensions)
		log.WithFields(log.Fields{
			"device":   c.Name,
			"type":     DeviceTypeName(c.Properties.DeviceType),
			"suitable": c.Suitable,
			"score":    RateDevice(c, cfg.PreferDiscrete),
		}).Debug(c.Reason)
		candidates = append(candidates, c)
	}

	idx, err := PickDevice(candidates, cfg.Index, cfg.PreferDiscrete)
	if err != nil {
		return DeviceCandidate{}, err
	}
	return candidates[idx], nil
}

// NewVulkanDevice creates the logical device for the candidate with
// one queue out of every family it needs.
func NewVulkanDevice(candidate DeviceCandidate, cfg DeviceConfiguration, layers []string) (*VulkanDevice, error) {
	if !candidate.Indices.IsComplete() {
		return nil, ErrIncompleteQueues
	}

	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range candidate.Indices.Unique() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(candidate.Device, &features)
	features.Deref()

	extensions := trimNames(cfg.Extensions)
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(candidate.Device, &dci, nil, &device)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	graphicsFamily, _ := candidate.Indices.Graphics()
	presentFamily, _ := candidate.Indices.Present()

	var graphicsQueue, presentQueue vk.Queue
	vk.GetDeviceQueue(device, graphicsFamily, 0, &graphicsQueue)
	vk.GetDeviceQueue(device, presentFamily, 0, &presentQueue)

	return &VulkanDevice{
		candidate:     candidate,
		device:        device,
		graphicsQueue: graphicsQueue,
		presentQueue:  presentQueue,
	}, nil
}

// VulkanDevice is the logical device along with its queues
type VulkanDevice struct {
	candidate DeviceCandidate

	device        vk.Device
	graphicsQueue vk.Queue
	presentQueue  vk.Queue
}

// Device returns the logical device handle
func (d *VulkanDevice) Device() vk.Device {
	return d.device
}

// PhysicalDevice returns the physical device the logical one was created on
func (d *VulkanDevice) PhysicalDevice() vk.PhysicalDevice {
	return d.candidate.Device
}

// Name returns the physical device name
func (d *VulkanDevice) Name() string {
	return d.candidate.Name
}

// Indices returns the queue families in use
func (d *VulkanDevice) Indices() QueueFamilyIndices {
	return d.candidate.Indices
}

// GraphicsQueue returns the queue used for graphics
func (d *VulkanDevice) GraphicsQueue() vk.Queue {
	return d.graphicsQueue
}

// PresentQueue returns the queue used for presentation
func (d *VulkanDevice) PresentQueue() vk.Queue {
	return d.presentQueue
}

// Destroy waits for the device to go idle and destroys it
func (d *VulkanDevice) Destroy() {
	warnOnFailure(log.WithField("device", d.Name()), "vk.DeviceWaitIdle()", vk.Error(vk.DeviceWaitIdle(d.device)))
	vk.DestroyDevice(d.device, nil)
}

// warnOnFailure logs err at warn level, teardown carries on regardless
func warnOnFailure(logger log.FieldLogger, op string, err error) {
	if err != nil {
		logger.WithError(err).Warn(op + " failed")
	}
}
