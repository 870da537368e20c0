package pull

import (
	"log"
	"os"
	"os/signal"
)

type options struct {
	logf   func(format string, args ...any)
	notify func(c chan<- os.Signal, sig ...os.Signal)
}

type Option func(opts *options)

func makeOptions(opts ...Option) *options {
	res := &options{
		logf:   log.Printf,
		notify: signal.Notify,
	}
	for _, o := range opts {
		o(res)
	}
	return res
}

// WithLogFunc routes the driver's user-facing notices.
func WithLogFunc(logf func(format string, args ...any)) Option {
	return func(o *options) {
		o.logf = logf
	}
}

// WithNotifyFunc replaces signal registration, for tests.
func WithNotifyFunc(notify func(c chan<- os.Signal, sig ...os.Signal)) Option {
	return func(o *options) {
		o.notify = notify
	}
}
