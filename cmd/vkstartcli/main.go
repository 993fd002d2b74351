// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstart/core"
	"github.com/devblok/vkstart/report"
)

var (
	output     = flag.String("o", "", "write the report to a file, compressed when it ends in "+report.CompressedSuffix)
	input      = flag.String("read", "", "print a previously written report")
	validation = flag.Bool("validation", false, "enable validation layers while enumerating")
)

func inventory() (report.Report, error) {
	cfg, err := core.LoadConfiguration(core.Resources)
	if err != nil {
		return report.Report{}, err
	}
	cfg.Instance.Validation = *validation

	coreInstance, err := core.NewVulkanInstance(nil, nil, cfg.Instance)
	if err != nil {
		return report.Report{}, err
	}
	defer coreInstance.Destroy()

	return report.New(coreInstance.PhysicalDevicesInfo()), nil
}

func run() error {
	if *input != "" {
		rep, err := report.ReadFile(*input)
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, rep)
	}

	rep, err := inventory()
	if err != nil {
		return err
	}

	if *output == "" {
		return report.Write(os.Stdout, rep)
	}
	if err := report.WriteFile(*output, rep); err != nil {
		return err
	}
	fmt.Printf("%d devices written to %s\n", len(rep.Devices), *output)
	return nil
}

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)

	if err := run(); err != nil {
		log.WithError(err).Fatal("vkstartcli failed")
	}
}
