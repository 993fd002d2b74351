// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// NewVulkanInstance loads Vulkan through procAddr (the default loader when nil)
// and creates an instance able to serve the window extensions given.
func NewVulkanInstance(procAddr unsafe.Pointer, windowExtensions []string, cfg InstanceConfiguration) (*VulkanInstance, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.SetDefaultGetInstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	var layers []string
	if cfg.Validation {
		available, err := availableInstanceLayers()
		if err != nil {
			return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
		}
		if missing := MissingNames(cfg.ValidationLayers, available); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrValidationUnavailable, missing)
		}
		layers = trimNames(cfg.ValidationLayers)
	}

	extensions := appendUnique(nil, windowExtensions...)
	extensions = appendUnique(extensions, cfg.Extensions...)
	if cfg.Validation {
		extensions = appendUnique(extensions, vk.ExtDebugReportExtensionName)
	}

	available, err := availableInstanceExtensions()
	if err != nil {
		return nil, errors.New("vk.EnumerateInstanceExtensionProperties(): " + err.Error())
	}
	if missing := MissingNames(extensions, available); len(missing) > 0 {
		return nil, fmt.Errorf("%w: instance %v", ErrExtensionUnavailable, missing)
	}

	/* Create instance */
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(1, 0, 0),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(cfg.ApplicationName),
		PEngineName:        safeString(cfg.EngineName),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.New("vk.InitInstance(): " + err.Error())
	}

	log.WithFields(log.Fields{
		"extensions": extensions,
		"layers":     layers,
	}).Debug("instance created")

	/* Enumerate devices */
	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	return &VulkanInstance{
		configuration:    cfg,
		extensions:       extensions,
		layers:           layers,
		instance:         instance,
		availableDevices: physicalDevices,
	}, nil
}

// VulkanInstance describes a Vulkan API Instance
type VulkanInstance struct {
	configuration InstanceConfiguration
	extensions    []string
	layers        []string

	availableDevices []vk.PhysicalDevice
	instance         vk.Instance
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	if deviceCount == 0 {
		return nil, ErrNoDevices
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices[:deviceCount], nil
}

// PhysicalDevicesInfo returns a description of every physical device
func (v *VulkanInstance) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	pdi := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for i, device := range v.availableDevices {
		if extensions, err := availableDeviceExtensions(device); err != nil {
			pdi[i].Invalid = true
		} else {
			pdi[i].Extensions = extensions
		}

		if layers, err := availableDeviceLayers(device); err != nil {
			pdi[i].Invalid = true
		} else {
			pdi[i].Layers = layers
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(device, &memoryProperties)
		memoryProperties.Deref()
		for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory += uint(memoryProperties.MemoryHeaps[iMem].Size)
		}

		// Get general device info
		properties := physicalDeviceProperties(device)
		pdi[i].ID = int(properties.DeviceID)
		pdi[i].VendorID = int(properties.VendorID)
		pdi[i].Name = vk.ToString(properties.DeviceName[:])
		pdi[i].DriverVersion = int(properties.DriverVersion)
		pdi[i].Type = DeviceTypeName(properties.DeviceType)
	}
	return pdi
}

func physicalDeviceProperties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()
	properties.Limits.Deref()
	return properties
}

// DeviceTypeName returns a readable name for a physical device type.
func DeviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

// Instance returns the internal vk.Instance
func (v *VulkanInstance) Instance() vk.Instance {
	return v.instance
}

// Extensions returns the enabled instance extensions
func (v *VulkanInstance) Extensions() []string {
	return v.extensions
}

// Layers returns the enabled instance layers
func (v *VulkanInstance) Layers() []string {
	return v.layers
}

// AvailableDevices returns handles of the physical devices
func (v *VulkanInstance) AvailableDevices() []vk.PhysicalDevice {
	return v.availableDevices
}

// Destroy destroys the instance, everything created from it must be gone
func (v *VulkanInstance) Destroy() {
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
}
