// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	vk "github.com/vulkan-go/vulkan"
)

func TestReportLevel(t *testing.T) {
	tests := []struct {
		flags vk.DebugReportFlagBits
		want  log.Level
	}{
		{vk.DebugReportErrorBit, log.ErrorLevel},
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, log.ErrorLevel},
		{vk.DebugReportWarningBit, log.WarnLevel},
		{vk.DebugReportPerformanceWarningBit, log.WarnLevel},
		{vk.DebugReportInformationBit, log.InfoLevel},
		{vk.DebugReportDebugBit, log.DebugLevel},
	}
	for _, tt := range tests {
		if got := ReportLevel(vk.DebugReportFlags(tt.flags)); got != tt.want {
			t.Errorf("flags %#x: got %s, want %s", tt.flags, got, tt.want)
		}
	}
}

func TestReportFlagsIncludeEveryKind(t *testing.T) {
	for _, bit := range []vk.DebugReportFlagBits{
		vk.DebugReportErrorBit,
		vk.DebugReportWarningBit,
		vk.DebugReportPerformanceWarningBit,
		vk.DebugReportInformationBit,
		vk.DebugReportDebugBit,
	} {
		if reportFlags&vk.DebugReportFlags(bit) == 0 {
			t.Errorf("report flags %#x lack bit %#x", reportFlags, bit)
		}
	}
}

func TestDebugHookReport(t *testing.T) {
	c := qt.New(t)

	logger, hook := test.NewNullLogger()
	dh := &DebugHook{logger: logger}

	ret := dh.report(vk.DebugReportFlags(vk.DebugReportWarningBit), vk.DebugReportObjectTypeInstance,
		0, 0, 7, "Validation", "vkCreateDevice: bad queue family", nil)
	c.Assert(ret, qt.Equals, vk.Bool32(vk.False))

	entry := hook.LastEntry()
	c.Assert(entry, qt.Not(qt.IsNil))
	c.Assert(entry.Level, qt.Equals, log.WarnLevel)
	c.Assert(entry.Message, qt.Equals, "validation layer: vkCreateDevice: bad queue family")
	c.Assert(entry.Data["layer"], qt.Equals, "Validation")
	c.Assert(entry.Data["code"], qt.Equals, int32(7))

	hook.Reset()
	dh.report(vk.DebugReportFlags(vk.DebugReportDebugBit), vk.DebugReportObjectTypeUnknown,
		0, 0, 0, "Loader Message", "searching for layers", nil)
	c.Assert(hook.Entries, qt.HasLen, 0)
}
