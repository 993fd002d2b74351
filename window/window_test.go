// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package window_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkstart/core"
	"github.com/devblok/vkstart/window"
)

func TestNewUnknownBackend(t *testing.T) {
	c := qt.New(t)

	w, err := window.New(core.WindowConfiguration{Backend: "wayland-direct"})
	c.Assert(w, qt.IsNil)
	c.Assert(errors.Is(err, window.ErrUnknownBackend), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `unknown window backend: "wayland-direct"`)
}

var (
	_ core.Window = (*window.SDLWindow)(nil)
	_ core.Window = (*window.GLFWWindow)(nil)
)
