// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestWarnOnFailure(t *testing.T) {
	c := qt.New(t)

	logger, hook := test.NewNullLogger()
	entry := logger.WithField("device", "GeForce GTX 1650")

	warnOnFailure(entry, "vk.DeviceWaitIdle()", nil)
	c.Assert(hook.Entries, qt.HasLen, 0)

	warnOnFailure(entry, "vk.DeviceWaitIdle()", errors.New("device lost"))
	last := hook.LastEntry()
	c.Assert(last, qt.Not(qt.IsNil))
	c.Assert(last.Level, qt.Equals, log.WarnLevel)
	c.Assert(last.Message, qt.Equals, "vk.DeviceWaitIdle() failed")
	c.Assert(last.Data["device"], qt.Equals, "GeForce GTX 1650")
	c.Assert(last.Data[log.ErrorKey], qt.ErrorMatches, "device lost")
}
