// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

// Process - the interface for a background process
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - the list of processes to start
type Processes []Process

// T - handle for the running set
type T struct {
	shutdown chan struct{}
	finished []chan struct{}
}

// Start - run a set of background processes
//
// all processes share one shutdown channel; each gets its own
// finished channel so Stop can wait for every Run to return
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
		finished: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		finished := make(chan struct{})
		register.finished[i] = finished
		go func(p Process) {
			p.Run(args, register.shutdown)
			close(finished)
		}(p)
	}
	return register
}

// Stop - stop the set of background processes and wait for them to finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	close(t.shutdown)

	for _, finished := range t.finished {
		<-finished
	}
}
