// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	vk "github.com/vulkan-go/vulkan"
)

// Resources holds the files shipped alongside the binary.
var Resources = packr.NewBox("./resources")

const defaultsResource = "defaults.env"

// Configuration defines a global application configuration setting
type Configuration struct {
	Window    WindowConfiguration
	Instance  InstanceConfiguration
	Device    DeviceConfiguration
	Swapchain SwapchainConfiguration
	Time      TimeConfiguration

	LogLevel string
}

// WindowConfiguration is used to configure the native window
type WindowConfiguration struct {
	// Backend selects the windowing library, "sdl" or "glfw"
	Backend   string
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// InstanceConfiguration is used to configure the Vulkan instance
type InstanceConfiguration struct {
	ApplicationName string
	EngineName      string

	// Validation enables the validation layers and the debug hook
	Validation       bool
	ValidationLayers []string

	// Extensions are requested on top of what the window requires
	Extensions []string
}

// DeviceConfiguration is used to configure device selection
type DeviceConfiguration struct {
	Extensions []string

	// Index forces a physical device, -1 picks the first suitable one, or
	// the best scoring one with PreferDiscrete
	Index          int
	PreferDiscrete bool
}

// SwapchainConfiguration holds the preferences used when negotiating
// the swapchain with the surface
type SwapchainConfiguration struct {
	Format      vk.Format
	ColorSpace  vk.ColorSpace
	PresentMode vk.PresentMode
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// EventPollDelay is the period between event polls in milliseconds
	EventPollDelay int
}

// DefaultConfiguration returns the configuration used when nothing
// else is provided.
func DefaultConfiguration() Configuration {
	return Configuration{
		Window: WindowConfiguration{
			Backend: "sdl",
			Title:   "vkstart",
			Width:   800,
			Height:  600,
		},
		Instance: InstanceConfiguration{
			ApplicationName:  "Hello Triangle",
			EngineName:       "No Engine",
			ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		},
		Device: DeviceConfiguration{
			Extensions:     []string{vk.KhrSwapchainExtensionName},
			Index:          -1,
			PreferDiscrete: false,
		},
		Swapchain: SwapchainConfiguration{
			Format:      vk.FormatB8g8r8a8Srgb,
			ColorSpace:  vk.ColorSpaceSrgbNonlinear,
			PresentMode: vk.PresentModeMailbox,
		},
		Time: TimeConfiguration{
			EventPollDelay: 16,
		},
		LogLevel: "info",
	}
}

// ResourceFinder finds named resources, packr.Box satisfies it.
type ResourceFinder = packd.Finder

// LookupFunc returns the value of a configuration key and whether it was set.
type LookupFunc func(key string) (string, bool)

// LoadConfiguration builds the configuration from the defaults, the
// defaults.env resource and finally the environment (and .env file).
func LoadConfiguration(resources ResourceFinder) (Configuration, error) {
	cfg := DefaultConfiguration()

	if resources != nil {
		if data, err := resources.Find(defaultsResource); err == nil {
			values, err := godotenv.Parse(bytes.NewReader(data))
			if err != nil {
				return cfg, fmt.Errorf("parse %s: %w", defaultsResource, err)
			}
			if err := cfg.Apply(MapLookup(values)); err != nil {
				return cfg, err
			}
		}
	}

	if err := cfg.Apply(EnvLookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EnvLookup resolves keys through envy, which also reads a local .env file.
func EnvLookup(key string) (string, bool) {
	value, err := envy.MustGet(key)
	return value, err == nil
}

// MapLookup resolves keys from a fixed set of values.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

type configKey struct {
	name string
	set  func(*Configuration, string) error
}

var configKeys = []configKey{
	{"VKSTART_WINDOW_BACKEND", func(c *Configuration, v string) error {
		c.Window.Backend = strings.ToLower(v)
		return nil
	}},
	{"VKSTART_WINDOW_TITLE", func(c *Configuration, v string) error {
		c.Window.Title = v
		return nil
	}},
	{"VKSTART_WINDOW_WIDTH", intSetter(func(c *Configuration) *int { return &c.Window.Width })},
	{"VKSTART_WINDOW_HEIGHT", intSetter(func(c *Configuration) *int { return &c.Window.Height })},
	{"VKSTART_WINDOW_RESIZABLE", boolSetter(func(c *Configuration) *bool { return &c.Window.Resizable })},
	{"VKSTART_APPLICATION_NAME", func(c *Configuration, v string) error {
		c.Instance.ApplicationName = v
		return nil
	}},
	{"VKSTART_VALIDATION", boolSetter(func(c *Configuration) *bool { return &c.Instance.Validation })},
	{"VKSTART_VALIDATION_LAYERS", listSetter(func(c *Configuration) *[]string { return &c.Instance.ValidationLayers })},
	{"VKSTART_INSTANCE_EXTENSIONS", listSetter(func(c *Configuration) *[]string { return &c.Instance.Extensions })},
	{"VKSTART_DEVICE_EXTENSIONS", listSetter(func(c *Configuration) *[]string { return &c.Device.Extensions })},
	{"VKSTART_DEVICE_INDEX", intSetter(func(c *Configuration) *int { return &c.Device.Index })},
	{"VKSTART_PREFER_DISCRETE", boolSetter(func(c *Configuration) *bool { return &c.Device.PreferDiscrete })},
	{"VKSTART_SURFACE_FORMAT", func(c *Configuration, v string) error {
		f, cs, err := ParseSurfaceFormat(v)
		if err != nil {
			return err
		}
		c.Swapchain.Format, c.Swapchain.ColorSpace = f, cs
		return nil
	}},
	{"VKSTART_PRESENT_MODE", func(c *Configuration, v string) error {
		m, err := ParsePresentMode(v)
		if err != nil {
			return err
		}
		c.Swapchain.PresentMode = m
		return nil
	}},
	{"VKSTART_EVENT_POLL_DELAY", intSetter(func(c *Configuration) *int { return &c.Time.EventPollDelay })},
	{"VKSTART_LOG_LEVEL", func(c *Configuration, v string) error {
		c.LogLevel = v
		return nil
	}},
}

// Apply overrides configuration values with every key lookup resolves.
func (c *Configuration) Apply(lookup LookupFunc) error {
	for _, key := range configKeys {
		value, ok := lookup(key.name)
		if !ok {
			continue
		}
		if err := key.set(c, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("configuration key %s: %w", key.name, err)
		}
	}
	return nil
}

func intSetter(field func(*Configuration) *int) func(*Configuration, string) error {
	return func(c *Configuration, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Configuration) *bool) func(*Configuration, string) error {
	return func(c *Configuration, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func listSetter(field func(*Configuration) *[]string) func(*Configuration, string) error {
	return func(c *Configuration, v string) error {
		var list []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		*field(c) = list
		return nil
	}
}

var presentModes = map[string]vk.PresentMode{
	"immediate":    vk.PresentModeImmediate,
	"mailbox":      vk.PresentModeMailbox,
	"fifo":         vk.PresentModeFifo,
	"fifo_relaxed": vk.PresentModeFifoRelaxed,
}

// ParsePresentMode maps a present mode name to its Vulkan value.
func ParsePresentMode(name string) (vk.PresentMode, error) {
	if m, ok := presentModes[strings.ToLower(name)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown present mode %q", name)
}

type surfaceFormat struct {
	format     vk.Format
	colorSpace vk.ColorSpace
}

var surfaceFormats = map[string]surfaceFormat{
	"b8g8r8a8_srgb":  {vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear},
	"b8g8r8a8_unorm": {vk.FormatB8g8r8a8Unorm, vk.ColorSpaceSrgbNonlinear},
	"r8g8b8a8_srgb":  {vk.FormatR8g8b8a8Srgb, vk.ColorSpaceSrgbNonlinear},
	"r8g8b8a8_unorm": {vk.FormatR8g8b8a8Unorm, vk.ColorSpaceSrgbNonlinear},
}

// ParseSurfaceFormat maps a surface format name to its Vulkan format
// and color space.
func ParseSurfaceFormat(name string) (vk.Format, vk.ColorSpace, error) {
	if f, ok := surfaceFormats[strings.ToLower(name)]; ok {
		return f.format, f.colorSpace, nil
	}
	return 0, 0, fmt.Errorf("unknown surface format %q", name)
}
