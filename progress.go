package chaindump

import "sync/atomic"

// Interrupt is a cooperative cancellation flag. Signal may be called any
// number of times from any goroutine (typically a signal handler); the
// coordinators poll Interrupted between batches only, never mid-record, so a
// raised flag stops the pipeline at the next batch boundary with the in-flight
// batch fully flushed or committed.
//
// A nil *Interrupt is valid and never reports an interruption.
type Interrupt struct {
	flag atomic.Bool
}

// Signal requests cancellation. Idempotent.
func (i *Interrupt) Signal() {
	if i != nil {
		i.flag.Store(true)
	}
}

// Interrupted reports whether cancellation has been requested.
func (i *Interrupt) Interrupted() bool {
	return i != nil && i.flag.Load()
}

// ProgressFunc is invoked after each batch with the number of records
// processed so far and the total for the operation. total is zero when it is
// not known up front, as on import.
type ProgressFunc func(done, total uint64)
