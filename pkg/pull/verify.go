package pull

import "fmt"

// ErrInvalidVerificationMode is returned by ParseVerify for unknown modes.
var ErrInvalidVerificationMode = fmt.Errorf("invalid verification mode")

// Verify selects how the integrity and authenticity of a downloaded image
// is established.
type Verify int

const (
	// VerifyNone performs no verification at all.
	VerifyNone Verify = iota
	// VerifyChecksum matches the payload against a published checksum list.
	VerifyChecksum
	// VerifySignature additionally requires a valid signature over the
	// checksum list. This is the default.
	VerifySignature
)

var verifyNames = map[Verify]string{
	VerifyNone:      "no",
	VerifyChecksum:  "checksum",
	VerifySignature: "signature",
}

func (v Verify) String() string {
	s, ok := verifyNames[v]
	if !ok {
		return fmt.Sprintf("verify(%d)", int(v))
	}
	return s
}

// ParseVerify parses the user-facing mode strings "no", "checksum" and
// "signature" (case-sensitive).
func ParseVerify(s string) (Verify, error) {
	for v, name := range verifyNames {
		if s == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidVerificationMode, s)
}
