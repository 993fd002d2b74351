// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"
)

type releaseStep struct {
	name    string
	release func()
}

// Teardown releases native objects in the reverse order they were created.
// The zero value is ready to use.
type Teardown struct {
	steps []releaseStep
}

// Push records how to release an object that was just created.
func (t *Teardown) Push(name string, release func()) {
	t.steps = append(t.steps, releaseStep{name: name, release: release})
}

// Len returns the number of pending steps.
func (t *Teardown) Len() int {
	return len(t.steps)
}

// Release runs every pending step, last pushed first.
func (t *Teardown) Release() {
	for i := len(t.steps) - 1; i >= 0; i-- {
		step := t.steps[i]
		log.WithField("step", step.name).Debug("releasing")
		step.release()
	}
	t.steps = nil
}
