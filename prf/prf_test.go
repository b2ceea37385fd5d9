package prf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	iv := bytes.Repeat([]byte{0x01}, IVSize)

	out1, err := Eval(key, iv, []byte("hello"))
	require.NoError(t, err)
	out2, err := Eval(key, iv, []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Len(t, out1, 16)
}

func TestEvalPadsFullBlockWhenAligned(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	iv := bytes.Repeat([]byte{0x01}, IVSize)

	out, err := Eval(key, iv, bytes.Repeat([]byte{0x00}, 16))
	require.NoError(t, err)
	assert.Len(t, out, 32)
}

func TestEvalVariesWithPlaintext(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	iv := bytes.Repeat([]byte{0x01}, IVSize)

	a, err := Eval(key, iv, []byte("a"))
	require.NoError(t, err)
	b, err := Eval(key, iv, []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEvalRejectsBadIVLength(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	_, err := Eval(key, []byte{0x01, 0x02}, []byte("x"))
	require.Error(t, err)
}
