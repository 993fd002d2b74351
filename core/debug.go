// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// NewDebugHook routes validation layer reports into the logger.
func NewDebugHook(instance vk.Instance, logger log.FieldLogger) (*DebugHook, error) {
	hook := &DebugHook{
		instance: instance,
		logger:   logger,
	}

	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       reportFlags,
		PfnCallback: hook.report,
	}

	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(instance, &createInfo, nil, &callback)); err != nil {
		return nil, errors.New("vk.CreateDebugReportCallback(): " + err.Error())
	}
	hook.callback = callback
	return hook, nil
}

// reportFlags selects every report kind, the logger level filters them.
var reportFlags = vk.DebugReportFlags(vk.DebugReportErrorBit |
	vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit |
	vk.DebugReportInformationBit |
	vk.DebugReportDebugBit)

// DebugHook holds the validation layer report callback.
type DebugHook struct {
	instance vk.Instance
	callback vk.DebugReportCallback
	logger   log.FieldLogger
}

func (d *DebugHook) report(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, layerPrefix string, message string,
	userData unsafe.Pointer) vk.Bool32 {
	entry := d.logger.WithFields(log.Fields{
		"layer": layerPrefix,
		"code":  messageCode,
	})
	logAtLevel(entry, ReportLevel(flags), "validation layer: "+message)
	return vk.False
}

// ReportLevel maps debug report flags to a log level, the most severe flag wins.
func ReportLevel(flags vk.DebugReportFlags) log.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return log.ErrorLevel
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return log.WarnLevel
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

func logAtLevel(entry log.FieldLogger, level log.Level, msg string) {
	switch level {
	case log.ErrorLevel:
		entry.Error(msg)
	case log.WarnLevel:
		entry.Warn(msg)
	case log.InfoLevel:
		entry.Info(msg)
	default:
		entry.Debug(msg)
	}
}

// Destroy destroys the report callback
func (d *DebugHook) Destroy() {
	vk.DestroyDebugReportCallback(d.instance, d.callback, nil)
}
