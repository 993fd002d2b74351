// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window opens native windows Vulkan can present to.
package window

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devblok/vkstart/core"
)

// ErrUnknownBackend is returned for a backend name New does not know.
var ErrUnknownBackend = errors.New("unknown window backend")

// Backend names
const (
	SDL  = "sdl"
	GLFW = "glfw"
)

// New opens a window with the backend named in cfg.
func New(cfg core.WindowConfiguration) (core.Window, error) {
	var (
		w   core.Window
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case SDL, "":
		w, err = NewSDL(cfg)
	case GLFW:
		w, err = NewGLFW(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
