// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstart/core"
	"github.com/devblok/vkstart/window"
)

func init() {
	runtime.LockOSThread()
}

var (
	backend    = flag.String("backend", "", "window backend, sdl or glfw")
	validation = flag.Bool("validation", false, "enable validation layers and the debug hook")
	width      = flag.Int("width", 0, "window width")
	height     = flag.Int("height", 0, "window height")
	device     = flag.Int("device", -1, "force a physical device by index, -1 picks the best one")
	logLevel   = flag.String("loglevel", "", "log level (debug, info, warn, error)")
	cpuProfile = flag.String("cpuprof", "", "write a CPU profile into this directory")
	memProfile = flag.String("memprof", "", "write a memory profile into this directory")
)

// applyFlags overrides the configuration with flags given on the command line
func applyFlags(cfg *core.Configuration) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Window.Backend = *backend
		case "validation":
			cfg.Instance.Validation = *validation
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "device":
			cfg.Device.Index = *device
		case "loglevel":
			cfg.LogLevel = *logLevel
		}
	})
}

func startProfile() interface{ Stop() } {
	switch {
	case *cpuProfile != "":
		if *memProfile != "" {
			log.Warn("both profiles requested, only the CPU profile is written")
		}
		return profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.NoShutdownHook)
	case *memProfile != "":
		return profile.Start(profile.MemProfile, profile.ProfilePath(*memProfile), profile.NoShutdownHook)
	}
	return nil
}

func run() error {
	cfg, err := core.LoadConfiguration(core.Resources)
	if err != nil {
		return err
	}
	applyFlags(&cfg)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if prof := startProfile(); prof != nil {
		defer prof.Stop()
	}

	log.WithFields(log.Fields{
		"backend":    cfg.Window.Backend,
		"validation": cfg.Instance.Validation,
	}).Info("starting")

	app := core.NewApplication(cfg, window.New)
	defer app.Destroy()
	if err := app.Initialise(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := run(); err != nil {
		log.WithError(err).Error("vkstart failed")
		os.Exit(1)
	}
}
