// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"math"

	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
)

// QueueFamilyIndices holds the queue families the program needs.
type QueueFamilyIndices struct {
	graphics, present       uint32
	hasGraphics, hasPresent bool
}

// SetGraphics records the graphics queue family
func (q *QueueFamilyIndices) SetGraphics(idx uint32) {
	q.graphics, q.hasGraphics = idx, true
}

// SetPresent records the present queue family
func (q *QueueFamilyIndices) SetPresent(idx uint32) {
	q.present, q.hasPresent = idx, true
}

// Graphics returns the graphics queue family, if found
func (q QueueFamilyIndices) Graphics() (uint32, bool) {
	return q.graphics, q.hasGraphics
}

// Present returns the present queue family, if found
func (q QueueFamilyIndices) Present() (uint32, bool) {
	return q.present, q.hasPresent
}

// IsComplete reports whether both families were found.
func (q QueueFamilyIndices) IsComplete() bool {
	return q.hasGraphics && q.hasPresent
}

// Unique returns the distinct families, graphics first.
func (q QueueFamilyIndices) Unique() []uint32 {
	var families []uint32
	if q.hasGraphics {
		families = append(families, q.graphics)
	}
	if q.hasPresent && !(q.hasGraphics && q.present == q.graphics) {
		families = append(families, q.present)
	}
	return families
}

// FindQueueFamilies picks the first family able to do graphics and the first
// one able to present. presentSupport is asked about every family visited.
// The families must be dereferenced already.
func FindQueueFamilies(families []vk.QueueFamilyProperties, presentSupport func(idx uint32) bool) QueueFamilyIndices {
	var indices QueueFamilyIndices
	for i, family := range families {
		idx := uint32(i)
		if !indices.hasGraphics && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			indices.SetGraphics(idx)
		}
		if !indices.hasPresent && presentSupport != nil && presentSupport(idx) {
			indices.SetPresent(idx)
		}
		if indices.IsComplete() {
			break
		}
	}
	return indices
}

// SharingMode returns how swapchain images are shared between the
// graphics and present families.
func SharingMode(indices QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if indices.graphics == indices.present {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{indices.graphics, indices.present}
}

// SwapchainSupport describes what a surface offers to a physical device.
type SwapchainSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Adequate reports whether a swapchain can be built at all.
func (s SwapchainSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// ChooseSurfaceFormat returns the preferred format and color space when the
// surface offers it, the first reported format otherwise.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat, format vk.Format, colorSpace vk.ColorSpace) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, ErrNoSurfaceFormats
	}
	for _, f := range formats {
		if f.Format == format && f.ColorSpace == colorSpace {
			return f, nil
		}
	}
	return formats[0], nil
}

// ChoosePresentMode returns the preferred mode when offered, FIFO otherwise.
// FIFO is the only mode every surface has to support.
func ChoosePresentMode(modes []vk.PresentMode, preferred vk.PresentMode) vk.PresentMode {
	if slices.Contains(modes, preferred) {
		return preferred
	}
	return vk.PresentModeFifo
}

// ChooseExtent returns the surface's current extent, or the window size
// clamped to the supported range when the surface leaves it to us.
func ChooseExtent(caps vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(uint32(width), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(uint32(height), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ImageCount asks for one image more than the minimum, capped by the
// maximum when the surface has one.
func ImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func clamp(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MissingNames returns the required names absent from available.
func MissingNames(required, available []string) []string {
	available = trimNames(available)
	var missing []string
	for _, r := range required {
		r = trimName(r)
		if !slices.Contains(available, r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// DeviceCandidate is a physical device along with what was learned about it.
type DeviceCandidate struct {
	Device     vk.PhysicalDevice
	Properties vk.PhysicalDeviceProperties
	Name       string
	Indices    QueueFamilyIndices
	Support    SwapchainSupport
	Suitable   bool
	Reason     string
}

// RateDevice scores a candidate, zero means it cannot be used. Without
// preferDiscrete every suitable device scores the same so the first one wins.
func RateDevice(c DeviceCandidate, preferDiscrete bool) uint64 {
	if !c.Suitable {
		return 0
	}
	score := uint64(1)
	if preferDiscrete {
		if c.Properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			score += 1000
		}
		score += uint64(c.Properties.Limits.MaxImageDimension2D)
	}
	return score
}

// PickDevice returns the position of the best candidate. A non-negative
// index forces that candidate, which still has to be suitable.
func PickDevice(candidates []DeviceCandidate, index int, preferDiscrete bool) (int, error) {
	if len(candidates) == 0 {
		return -1, ErrNoDevices
	}
	if index >= 0 {
		if index >= len(candidates) || !candidates[index].Suitable {
			return -1, ErrNoSuitableDevice
		}
		return index, nil
	}

	best, bestScore := -1, uint64(0)
	for i, c := range candidates {
		if score := RateDevice(c, preferDiscrete); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, ErrNoSuitableDevice
	}
	return best, nil
}
