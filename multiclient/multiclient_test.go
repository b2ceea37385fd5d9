package multiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRIPTIM/nipsi"
)

func strSet(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

// TestCardinalitySharesSumToZero checks the invariant Σ s_i ≡ 0 mod q
// that makes scheme #4's identity test work at all.
func TestCardinalitySharesSumToZero(t *testing.T) {
	scheme := NewCardinality(nil)
	shares, err := scheme.Setup(128, 4)
	require.NoError(t, err)
	require.Len(t, shares, 4)

	suite := scheme.Ops.Suite()
	sum := suite.Scalar().Zero()
	for _, s := range shares {
		sum = suite.Scalar().Add(sum, s)
	}
	assert.True(t, sum.Equal(suite.Scalar().Zero()))
}

// TestCardinalityThreeClients checks a three-way intersection where
// only some elements are shared by all clients.
func TestCardinalityThreeClients(t *testing.T) {
	scheme := NewCardinality(nil)
	gid := nipsi.GidFromUint64(1)

	shares, err := scheme.Setup(128, 3)
	require.NoError(t, err)

	ct0, err := scheme.Encrypt(shares[0], gid, strSet("a", "b", "c"))
	require.NoError(t, err)
	ct1, err := scheme.Encrypt(shares[1], gid, strSet("b", "c", "d"))
	require.NoError(t, err)
	ct2, err := scheme.Encrypt(shares[2], gid, strSet("b", "c", "e"))
	require.NoError(t, err)

	count, err := scheme.Eval([]CtSet{ct0, ct1, ct2})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestCardinalityDisjoint checks that disjoint sets report zero.
func TestCardinalityDisjoint(t *testing.T) {
	scheme := NewCardinality(nil)
	gid := nipsi.GidFromUint64(1)

	shares, err := scheme.Setup(128, 2)
	require.NoError(t, err)

	ct0, err := scheme.Encrypt(shares[0], gid, strSet("a", "b"))
	require.NoError(t, err)
	ct1, err := scheme.Encrypt(shares[1], gid, strSet("c", "d"))
	require.NoError(t, err)

	count, err := scheme.Eval([]CtSet{ct0, ct1})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestCardinalityDuplicateElementsDoNotDoubleCount checks that a value
// repeated in one client's input is not matched twice against a single
// shared element: Encrypt collapses equal ciphertexts into one set
// entry, and Eval's removal-on-match keeps a matched entry from being
// reused.
func TestCardinalityDuplicateElementsDoNotDoubleCount(t *testing.T) {
	scheme := NewCardinality(nil)
	gid := nipsi.GidFromUint64(1)

	shares, err := scheme.Setup(128, 2)
	require.NoError(t, err)

	ct0, err := scheme.Encrypt(shares[0], gid, strSet("a", "a"))
	require.NoError(t, err)
	ct1, err := scheme.Encrypt(shares[1], gid, strSet("a"))
	require.NoError(t, err)

	count, err := scheme.Eval([]CtSet{ct0, ct1})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// TestCardinalityEfficientMatchesCartesianSearch checks that the
// Bloom-filter-based scheme #5 reports the exact intersection size of
// these sets (2, the count the exact scheme #4 search gives; scheme #4
// itself is not run here), for a filter sized generously enough that
// false positives are not expected to appear in this test.
func TestCardinalityEfficientMatchesCartesianSearch(t *testing.T) {
	gid := nipsi.GidFromUint64(1)
	sets := [][][]byte{
		strSet("a", "b", "c", "d"),
		strSet("b", "c", "d", "e"),
		strSet("b", "c", "e", "f"),
	}

	m, k := DetermineParameters(100, 0.0001)

	scheme := NewCardinalityEfficient(nil)
	usks, err := scheme.Setup(128, 3, m, k)
	require.NoError(t, err)

	cts := make([]EfficientCt, 3)
	for i := range sets {
		ct, err := scheme.Encrypt(usks[i], gid, sets[i])
		require.NoError(t, err)
		cts[i] = ct
	}

	count, err := scheme.Eval(cts)
	require.NoError(t, err)
	assert.Equal(t, 2, count) // b and c are common to all three
}

func TestCardinalityEfficientRejectsWrongSetCount(t *testing.T) {
	scheme := NewCardinalityEfficient(nil)
	_, err := scheme.Setup(128, 3, 1024, 10)
	require.NoError(t, err)

	_, err = scheme.Eval([]EfficientCt{{}, {}})
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrParameterMismatch)
}

func TestCardinalitySetupRejectsTooFewClients(t *testing.T) {
	scheme := NewCardinality(nil)
	_, err := scheme.Setup(128, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, nipsi.ErrInvalidArgument)
}
