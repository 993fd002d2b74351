// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"
)

type fakeWindow struct {
	polls      int
	closeAt    int
	destroyed  bool
	surfaceErr error
}

func (w *fakeWindow) RequiredInstanceExtensions() []string { return nil }
func (w *fakeWindow) ProcAddr() unsafe.Pointer             { return nil }
func (w *fakeWindow) FramebufferSize() (int, int)          { return 800, 600 }
func (w *fakeWindow) Destroy()                             { w.destroyed = true }

func (w *fakeWindow) CreateSurface(vk.Instance) (vk.Surface, error) {
	var surface vk.Surface
	if w.surfaceErr != nil {
		return surface, w.surfaceErr
	}
	return surface, errors.New("no surface for a fake window")
}

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	return w.closeAt <= 0 || w.polls < w.closeAt
}

var _ Window = (*fakeWindow)(nil)

func TestRunSequence(t *testing.T) {
	c := qt.New(t)

	var log []string
	record := func(name string) func() (func(), error) {
		return func() (func(), error) {
			log = append(log, "create "+name)
			return func() { log = append(log, "release "+name) }, nil
		}
	}

	var td Teardown
	err := runSequence([]step{
		{"window", record("window")},
		{"debug hook", func() (func(), error) { return nil, nil }},
		{"instance", record("instance")},
	}, &td)
	c.Assert(err, qt.IsNil)
	c.Assert(td.Len(), qt.Equals, 2)

	td.Release()
	c.Assert(log, qt.DeepEquals, []string{
		"create window",
		"create instance",
		"release instance",
		"release window",
	})
}

func TestRunSequenceFailureReleasesCreated(t *testing.T) {
	c := qt.New(t)

	var released []string
	created := func(name string) func() (func(), error) {
		return func() (func(), error) {
			return func() { released = append(released, name) }, nil
		}
	}
	boom := errors.New("boom")
	reached := false

	var td Teardown
	err := runSequence([]step{
		{"window", created("window")},
		{"instance", created("instance")},
		{"surface", func() (func(), error) { return nil, boom }},
		{"device", func() (func(), error) {
			reached = true
			return nil, nil
		}},
	}, &td)

	c.Assert(err, qt.ErrorMatches, "surface: boom")
	c.Assert(errors.Is(err, boom), qt.IsTrue)
	c.Assert(reached, qt.IsFalse)
	c.Assert(released, qt.DeepEquals, []string{"instance", "window"})
	c.Assert(td.Len(), qt.Equals, 0)
}

func TestInitialiseWindowFailure(t *testing.T) {
	c := qt.New(t)

	noWindow := errors.New("no display")
	app := NewApplication(DefaultConfiguration(), func(WindowConfiguration) (Window, error) {
		return nil, noWindow
	})
	err := app.Initialise()
	c.Assert(errors.Is(err, noWindow), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "window: no display")
	app.Destroy()
}

func TestRunUntilWindowCloses(t *testing.T) {
	c := qt.New(t)

	w := &fakeWindow{closeAt: 3}
	cfg := DefaultConfiguration()
	cfg.Time.EventPollDelay = 1
	app := NewApplication(cfg, nil)
	app.window = w

	c.Assert(app.Run(context.Background()), qt.IsNil)
	c.Assert(w.polls, qt.Equals, 3)
}

func TestRunCancelled(t *testing.T) {
	c := qt.New(t)

	w := &fakeWindow{}
	cfg := DefaultConfiguration()
	cfg.Time.EventPollDelay = 1
	app := NewApplication(cfg, nil)
	app.window = w

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Assert(app.Run(ctx), qt.Equals, context.Canceled)
}

func TestDestroyReleasesWindow(t *testing.T) {
	c := qt.New(t)

	w := &fakeWindow{}
	app := NewApplication(DefaultConfiguration(), func(WindowConfiguration) (Window, error) {
		return w, nil
	})
	c.Assert(runSequence(app.steps()[:1], &app.teardown), qt.IsNil)
	c.Assert(app.window, qt.Equals, Window(w))

	app.Destroy()
	c.Assert(w.destroyed, qt.IsTrue)
}

func TestStepOrder(t *testing.T) {
	c := qt.New(t)

	app := NewApplication(DefaultConfiguration(), nil)
	var names []string
	for _, s := range app.steps() {
		names = append(names, s.name)
	}
	c.Assert(names, qt.DeepEquals, []string{
		"window",
		"instance",
		"debug hook",
		"surface",
		"device",
		"swapchain",
		"image views",
	})
}

func TestSurfaceFailureReleasesWindow(t *testing.T) {
	c := qt.New(t)

	noSurface := errors.New("surface lost")
	w := &fakeWindow{surfaceErr: noSurface}
	app := NewApplication(DefaultConfiguration(), func(WindowConfiguration) (Window, error) {
		return w, nil
	})

	var reached []string
	instanceReleased := false
	steps := app.steps()
	for i := range steps {
		name := steps[i].name
		switch name {
		case "instance":
			steps[i].create = func() (func(), error) {
				reached = append(reached, name)
				app.instance = &VulkanInstance{}
				return func() {
					c.Assert(w.destroyed, qt.IsFalse)
					instanceReleased = true
				}, nil
			}
		case "device", "swapchain", "image views":
			steps[i].create = func() (func(), error) {
				reached = append(reached, name)
				return nil, nil
			}
		}
	}

	err := runSequence(steps, &app.teardown)
	c.Assert(err, qt.ErrorMatches, "surface: surface lost")
	c.Assert(errors.Is(err, noSurface), qt.IsTrue)
	c.Assert(reached, qt.DeepEquals, []string{"instance"})
	c.Assert(instanceReleased, qt.IsTrue)
	c.Assert(w.destroyed, qt.IsTrue)
	c.Assert(app.teardown.Len(), qt.Equals, 0)
}
