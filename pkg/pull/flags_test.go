package pull

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags_SetAndHas(t *testing.T) {
	var f Flags
	f = f.Set(PullSettings, true)
	f = f.Set(PullVerity, true)

	assert.True(t, f.Has(PullSettings))
	assert.True(t, f.Has(PullVerity))
	assert.False(t, f.Has(PullRoothash))

	f = f.Set(PullVerity, false)
	assert.False(t, f.Has(PullVerity))
}

func TestFlags_DisablingRoothashDisablesSignature(t *testing.T) {
	f := DefaultFlags
	assert.True(t, f.Has(PullRoothash))
	assert.True(t, f.Has(PullRoothashSignature))

	f = f.Set(PullRoothash, false)
	assert.False(t, f.Has(PullRoothash))
	assert.False(t, f.Has(PullRoothashSignature))

	t.Run("idempotent", func(t *testing.T) {
		again := f.Set(PullRoothash, false)
		assert.Equal(t, f, again)
	})

	t.Run("no other coupling", func(t *testing.T) {
		f := DefaultFlags.Set(PullSettings, false)
		assert.True(t, f.Has(PullRoothash))
		assert.True(t, f.Has(PullRoothashSignature))
		assert.True(t, f.Has(PullVerity))
	})
}

func TestFlags_FormatMasks(t *testing.T) {
	all := DefaultFlags | PullForce

	tar := all.Mask(MaskTar)
	assert.True(t, tar.Has(PullForce))
	assert.True(t, tar.Has(PullSettings))
	assert.False(t, tar.Has(PullRoothash))
	assert.False(t, tar.Has(PullRoothashSignature))
	assert.False(t, tar.Has(PullVerity))

	raw := all.Mask(MaskRaw)
	assert.Equal(t, all, raw)
}

func TestFlags_RoundTrip(t *testing.T) {
	for _, f := range []Flags{
		0,
		PullSettings,
		PullSettings | PullVerity,
		DefaultFlags,
		DefaultFlags | PullForce,
	} {
		var rebuilt Flags
		rebuilt = rebuilt.Set(PullForce, f.Has(PullForce))
		rebuilt = rebuilt.Set(PullSettings, f.Has(PullSettings))
		rebuilt = rebuilt.Set(PullVerity, f.Has(PullVerity))
		rebuilt = rebuilt.Set(PullRoothashSignature, f.Has(PullRoothashSignature))
		rebuilt = rebuilt.Set(PullRoothash, f.Has(PullRoothash))
		assert.Equal(t, f, rebuilt)
	}
}

func TestParseVerify(t *testing.T) {
	for in, want := range map[string]Verify{
		"no":        VerifyNone,
		"checksum":  VerifyChecksum,
		"signature": VerifySignature,
	} {
		v, err := ParseVerify(in)
		assert.NoError(t, err)
		assert.Equal(t, want, v)
		assert.Equal(t, in, v.String())
	}

	for _, in := range []string{"", "yes", "NO", "Checksum", "sig"} {
		_, err := ParseVerify(in)
		assert.ErrorIs(t, err, ErrInvalidVerificationMode, "input %q", in)
	}
}
