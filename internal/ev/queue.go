// Package ev provides the serial event queue shared by the client and
// the test compositor. Producers, such as a socket reader goroutine,
// add operations to the queue, and a single consumer pulls them out in
// batches and runs them in order.
package ev

import (
	"errors"

	"deedles.dev/xsync/cq"
)

// Op is a single queued operation, such as the dispatch of one incoming
// message or the sending of one outgoing message.
type Op = func() error

type Queue = cq.BulkQueue[Op, []Op]

func NewQueue() *Queue {
	return cq.New(func(v []Op) []Op { return v })
}

// Flush runs every operation in ops and returns the errors they
// produced.
func Flush(ops []Op) error {
	var errs []error
	for _, op := range ops {
		err := op()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
