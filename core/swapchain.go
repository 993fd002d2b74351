// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// NewVulkanSwapchain negotiates a swapchain between the device and the
// surface and retrieves its images. Views are created with CreateImageViews.
func NewVulkanSwapchain(device *VulkanDevice, surface vk.Surface, width, height int, cfg SwapchainConfiguration) (*VulkanSwapchain, error) {
	support, err := QuerySwapchainSupport(device.PhysicalDevice(), surface)
	if err != nil {
		return nil, err
	}

	surfaceFormat, err := ChooseSurfaceFormat(support.Formats, cfg.Format, cfg.ColorSpace)
	if err != nil {
		return nil, err
	}
	presentMode := ChoosePresentMode(support.PresentModes, cfg.PresentMode)
	extent := ChooseExtent(support.Capabilities, width, height)
	sharingMode, familyIndices := SharingMode(device.Indices())

	scci := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface,
		MinImageCount:         ImageCount(support.Capabilities),
		ImageFormat:           surfaceFormat.Format,
		ImageColorSpace:       surfaceFormat.ColorSpace,
		ImageExtent:           extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		QueueFamilyIndexCount: uint32(len(familyIndices)),
		PQueueFamilyIndices:   familyIndices,
		PreTransform:          support.Capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           presentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}

	v := &VulkanSwapchain{
		device:      device.Device(),
		imageFormat: surfaceFormat.Format,
		colorSpace:  surfaceFormat.ColorSpace,
		presentMode: presentMode,
		extent:      extent,
	}

	if err := vk.Error(vk.CreateSwapchain(v.device, &scci, nil, &v.swapchain)); err != nil {
		return nil, errors.New("vk.CreateSwapchain(): " + err.Error())
	}

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(v.device, v.swapchain, &numImages, nil)); err != nil {
		v.Destroy()
		return nil, errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}
	v.images = make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(v.device, v.swapchain, &numImages, v.images)); err != nil {
		v.Destroy()
		return nil, errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}
	v.images = v.images[:numImages]
	return v, nil
}

// VulkanSwapchain is a swapchain with one view for every image
type VulkanSwapchain struct {
	device    vk.Device
	swapchain vk.Swapchain

	images     []vk.Image
	imageViews []vk.ImageView

	imageFormat vk.Format
	colorSpace  vk.ColorSpace
	presentMode vk.PresentMode
	extent      vk.Extent2D
}

// CreateImageViews creates a 2D color view for every swapchain image.
// On failure the views created so far are destroyed.
func (v *VulkanSwapchain) CreateImageViews() error {
	for idx, image := range v.images {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   v.imageFormat,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}

		var imageView vk.ImageView
		if err := vk.Error(vk.CreateImageView(v.device, &ivci, nil, &imageView)); err != nil {
			v.DestroyImageViews()
			return fmt.Errorf("vk.CreateImageView()[%d]: %s", idx, err.Error())
		}
		v.imageViews = append(v.imageViews, imageView)
	}
	return nil
}

// Images returns the swapchain images
func (v *VulkanSwapchain) Images() []vk.Image {
	return v.images
}

// ImageViews returns one view per swapchain image
func (v *VulkanSwapchain) ImageViews() []vk.ImageView {
	return v.imageViews
}

// Format returns the image format in use
func (v *VulkanSwapchain) Format() vk.Format {
	return v.imageFormat
}

// PresentMode returns the negotiated present mode
func (v *VulkanSwapchain) PresentMode() vk.PresentMode {
	return v.presentMode
}

// Extent returns the size of the swapchain images
func (v *VulkanSwapchain) Extent() vk.Extent2D {
	return v.extent
}

// DestroyImageViews destroys the views of the swapchain images
func (v *VulkanSwapchain) DestroyImageViews() {
	for _, iv := range v.imageViews {
		vk.DestroyImageView(v.device, iv, nil)
	}
	v.imageViews = nil
}

// Destroy destroys remaining image views, then the swapchain
func (v *VulkanSwapchain) Destroy() {
	v.DestroyImageViews()
	v.images = nil

	if v.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(v.device, v.swapchain, nil)
		v.swapchain = vk.NullSwapchain
	}
}
