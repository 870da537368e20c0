package pull

// Flags selects which optional artifacts a pull downloads alongside the
// image payload, plus the force-overwrite behaviour.
type Flags uint

const (
	// PullSettings downloads the settings file next to the image.
	PullSettings Flags = 1 << iota
	// PullRoothash downloads the root hash file next to the image.
	PullRoothash
	// PullRoothashSignature downloads the signature of the root hash file.
	PullRoothashSignature
	// PullVerity downloads the verity data file next to the image.
	PullVerity
	// PullForce permits overwriting an existing local image of the same name.
	PullForce
)

// Per-format masks. Flags outside a format's mask are ignored for that
// format: tar images carry no verity metadata.
const (
	MaskTar = PullForce | PullSettings
	MaskRaw = PullForce | PullSettings | PullRoothash | PullRoothashSignature | PullVerity
)

// DefaultFlags downloads every optional artifact and never overwrites.
const DefaultFlags = PullSettings | PullRoothash | PullRoothashSignature | PullVerity

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Set returns f with flag switched on or off. Switching off PullRoothash
// also switches off PullRoothashSignature: a signature without its root
// hash is meaningless.
func (f Flags) Set(flag Flags, on bool) Flags {
	if on {
		return f | flag
	}
	f &^= flag
	if flag.Has(PullRoothash) {
		f &^= PullRoothashSignature
	}
	return f
}

// Mask limits f to the bits a format understands.
func (f Flags) Mask(mask Flags) Flags {
	return f & mask
}
