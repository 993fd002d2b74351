// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strings"

	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
)

// safeString terminates s with a NUL, as expected by the Vulkan bindings.
// Already terminated strings are left alone.
func safeString(s string) string {
	return trimName(s) + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

// trimName strips trailing NULs that some window libraries leave on
// extension names.
func trimName(s string) string {
	return strings.TrimRight(s, "\x00")
}

func trimNames(sgs []string) []string {
	trimmed := make([]string, 0, len(sgs))
	for _, s := range sgs {
		trimmed = append(trimmed, trimName(s))
	}
	return trimmed
}

// appendUnique appends names that are not yet present in dst.
func appendUnique(dst []string, names ...string) []string {
	for _, n := range names {
		n = trimName(n)
		if !slices.Contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names
}

func layerNames(props []vk.LayerProperties) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names
}

func availableInstanceLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	return layerNames(props[:count]), nil
}

func availableInstanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, err
	}
	return extensionNames(props[:count]), nil
}

func availableDeviceExtensions(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, props)); err != nil {
		return nil, err
	}
	return extensionNames(props[:count]), nil
}

func availableDeviceLayers(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, props)); err != nil {
		return nil, err
	}
	return layerNames(props[:count]), nil
}
