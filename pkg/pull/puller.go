package pull

import "context"

// Request carries everything a puller needs for one download. It is built
// once per invocation and never mutated afterwards.
type Request struct {
	// URL is the validated source of the image payload.
	URL string
	// LocalName is the validated name to install the image under. Empty
	// means a dry pull: download and verify, persist nothing.
	LocalName string
	// ImageRoot is the directory the image is installed into.
	ImageRoot string
	// Flags selects optional artifacts and overwrite behaviour.
	Flags Flags
	// Verify selects the verification policy for the payload.
	Verify Verify
}

// Puller is an asynchronous download/verify/store engine for one image
// format. The driver owns a puller for exactly one request: Start kicks
// the operation off after synchronous validation, Done delivers exactly
// one outcome code (0 on success), and Close cancels any in-flight work
// and releases resources.
type Puller interface {
	Start(ctx context.Context, req *Request) error
	Done() <-chan int
	Close() error
}

// Format describes one supported image format and how to obtain a puller
// for it.
type Format struct {
	// Name is the user-visible format name, also the subcommand verb.
	Name string
	// Suffixes are the format's file suffixes, stripped during local name
	// resolution (compression suffixes are handled separately).
	Suffixes []string
	// Mask limits which Flags the format understands.
	Mask Flags
	// New allocates a puller installing into imageRoot.
	New func(imageRoot string) (Puller, error)
}
