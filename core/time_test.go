// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"
	"time"
)

func TestTimeEventPollDelay(t *testing.T) {
	ts := NewTime(TimeConfiguration{EventPollDelay: 16})
	defer ts.Stop()
	if ts.EventPollDelay() != 16*time.Millisecond {
		t.Errorf("unexpected delay %s", ts.EventPollDelay())
	}

	zero := NewTime(TimeConfiguration{})
	defer zero.Stop()
	if zero.EventPollDelay() != time.Millisecond {
		t.Errorf("zero delay should fall back to 1ms, got %s", zero.EventPollDelay())
	}

	select {
	case <-zero.EventTicker().C:
	case <-time.After(time.Second):
		t.Error("event ticker never fired")
	}
}
