package puller

import (
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"
)

type options struct {
	client       *http.Client
	logf         func(format string, args ...any)
	showProgress bool
	gpgBinary    string
}

type Option func(opts *options)

func makeOptions(opts ...Option) *options {
	res := &options{
		client:       &http.Client{Timeout: 30 * time.Minute},
		logf:         log.Printf,
		showProgress: term.IsTerminal(int(os.Stderr.Fd())),
		gpgBinary:    "gpg",
	}
	for _, o := range opts {
		o(res)
	}
	return res
}

// WithClient replaces the HTTP client, for tests.
func WithClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogFunc routes the puller's log output.
func WithLogFunc(logf func(format string, args ...any)) Option {
	return func(o *options) {
		o.logf = logf
	}
}

// WithProgress forces byte progress reporting on or off; the default is on
// only when stderr is a terminal.
func WithProgress(show bool) Option {
	return func(o *options) {
		o.showProgress = show
	}
}

// WithGPGBinary overrides the external binary used for signature
// verification.
func WithGPGBinary(path string) Option {
	return func(o *options) {
		o.gpgBinary = path
	}
}
