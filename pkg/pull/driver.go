package pull

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Run drives one pull operation to completion.
//
// Termination signals are registered before anything asynchronous exists,
// so SIGTERM and SIGINT are observed cooperatively in the wait below
// instead of killing the process mid-transfer. Exactly two events can end
// the wait: a signal, which wins immediately and yields an interrupted
// outcome regardless of the puller's progress, or the puller's single
// completion notification carrying its outcome code. The deferred Close
// tears the puller down on every path, cancelling any in-flight work.
func Run(ctx context.Context, format Format, req *Request, opt ...Option) (Outcome, error) {
	opts := makeOptions(opt...)

	sigc := make(chan os.Signal, 1)
	opts.notify(sigc, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigc)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := format.New(req.ImageRoot)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to allocate %s puller: %w", format.Name, err)
	}
	defer p.Close()

	if err := p.Start(ctx, req); err != nil {
		return Outcome{}, fmt.Errorf("failed to pull image: %w", err)
	}

	select {
	case <-sigc:
		opts.logf("Transfer aborted.")
		return Outcome{Interrupted: true}, nil
	case code := <-p.Done():
		if code < 0 {
			code = -code
		}
		if code == 0 {
			opts.logf("Operation completed successfully.")
		}
		return Outcome{Code: code}, nil
	}
}
