package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRIPTIM/nipsi"
)

func TestHashToPointDeterministic(t *testing.T) {
	ops := New()

	p1 := ops.HashToPoint(0x00, []byte("hello"))
	p2 := ops.HashToPoint(0x00, []byte("hello"))
	assert.True(t, p1.Equal(p2), "hash-to-point must be deterministic for fixed input")

	p3 := ops.HashToPoint(0x00, []byte("world"))
	assert.False(t, p1.Equal(p3), "distinct inputs should (overwhelmingly likely) map to distinct points")

	p4 := ops.HashToPoint(0x01, []byte("hello"))
	assert.False(t, p1.Equal(p4), "domain separation byte must affect the output")
}

func TestSerializeRoundTrip(t *testing.T) {
	ops := New()

	s := ops.RandomScalar()
	b, err := Serialize(s)
	require.NoError(t, err)
	s2, err := ops.DeserializeScalar(b)
	require.NoError(t, err)
	assert.True(t, s.Equal(s2))

	p := ops.RandomPoint()
	pb, err := Serialize(p)
	require.NoError(t, err)
	p2, err := ops.DeserializePoint(pb)
	require.NoError(t, err)
	assert.True(t, p.Equal(p2))
}

func TestDeserializeMalformed(t *testing.T) {
	ops := New()

	_, err := ops.DeserializePoint([]byte{0x01, 0x02})
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrMalformedCiphertext)
}

func TestExpAgainstGenerator(t *testing.T) {
	ops := New()

	s := ops.ScalarFromInt(1)
	g1 := ops.Exp(s, nil)
	assert.True(t, g1.Equal(ops.G), "exponentiating by 1 must return the generator itself")

	zero := ops.Suite().Scalar().Zero()
	assert.True(t, ops.Exp(zero, nil).Equal(ops.Identity()))
}

func TestScalarFromBytesIsDeterministic(t *testing.T) {
	ops := New()
	a := ops.ScalarFromBytes([]byte("some ciphertext bytes"))
	b := ops.ScalarFromBytes([]byte("some ciphertext bytes"))
	assert.True(t, a.Equal(b))
}
