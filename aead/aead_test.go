package aead

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRIPTIM/nipsi"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)
	nonce := bytes.Repeat([]byte{0x22}, NonceSize)

	ct, err := Seal(key, nonce, []byte("set element"), nil)
	require.NoError(t, err)

	pt, err := Open(key, nonce, ct, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("set element"), pt)
}

func TestOpenFailsOnTamperedCiphertext(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)
	nonce := bytes.Repeat([]byte{0x22}, NonceSize)

	ct, err := Seal(key, nonce, []byte("set element"), nil)
	require.NoError(t, err)
	ct[0] ^= 0xff

	_, err = Open(key, nonce, ct, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrAuthFail)
}

func TestOpenFailsOnWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)
	other := bytes.Repeat([]byte{0x33}, KeySize)
	nonce := bytes.Repeat([]byte{0x22}, NonceSize)

	ct, err := Seal(key, nonce, []byte("set element"), nil)
	require.NoError(t, err)

	_, err = Open(other, nonce, ct, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrAuthFail)
}
