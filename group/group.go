// Package group wraps a prime-order elliptic-curve group around the
// kyber abstraction (github.com/drand/kyber), fixed to NIST P-256.
package group

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/drand/kyber"
	"github.com/drand/kyber/group/nist"
	"github.com/drand/kyber/util/random"

	"github.com/CRIPTIM/nipsi"
)

// order is the NIST P-256 group order, reproduced here because
// kyber.Group does not expose it directly; it is used for scalar
// arithmetic that has to leave kyber's Scalar interface (see the poly
// package).
var order = func() *big.Int {
	// same value as crypto/elliptic.P256().Params().N, spelled out so
	// group has no dependency on the stdlib curve implementation beyond
	// this constant.
	n, ok := new(big.Int).SetString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)
	if !ok {
		panic("group: invalid P-256 order constant")
	}
	return n
}()

// Ops is a prime-order elliptic-curve group instance with a fixed
// generator, shared by every encrypt/eval call made against it.
type Ops struct {
	suite kyber.Group
	G     kyber.Point
}

// New constructs an Ops with a freshly drawn generator point. Clients
// and evaluators that need to interoperate must be constructed against
// the same *Ops, or their ciphertexts will not be comparable.
func New() *Ops {
	suite := nist.NewBlakeSHA256P256()
	return &Ops{
		suite: suite,
		G:     suite.Point().Pick(random.New()),
	}
}

// Suite exposes the underlying kyber.Group for callers (poly, the
// scheme packages) that need to construct their own scalars/points
// without going through Ops's higher-level helpers.
func (o *Ops) Suite() kyber.Group { return o.suite }

// Order returns q, the order of the scalar field / point group.
func (o *Ops) Order() *big.Int {
	return new(big.Int).Set(order)
}

// RandomScalar returns a uniform element of Z_q.
func (o *Ops) RandomScalar() kyber.Scalar {
	return o.suite.Scalar().Pick(random.New())
}

// RandomPoint returns a uniform element of the group.
func (o *Ops) RandomPoint() kyber.Point {
	return o.suite.Point().Pick(random.New())
}

// ScalarFromBytes reduces arbitrary-length big-endian bytes modulo q,
// the Go equivalent of the reference's int.from_bytes(ct, 'big') %
// self.group.order().
func (o *Ops) ScalarFromBytes(b []byte) kyber.Scalar {
	return o.suite.Scalar().SetBytes(b)
}

// ScalarFromInt sets a scalar from a small non-negative integer, used
// for Shamir x-coordinates (1, 2, ..., n) and Bloom-filter bit weights.
func (o *Ops) ScalarFromInt(n int64) kyber.Scalar {
	return o.suite.Scalar().SetInt64(n)
}

// HashToPoint deterministically maps arbitrary bytes to a group
// element. kyber's Point.Pick only reads from a cipher.Stream, so a
// deterministic point requires a deterministic stream: seed an
// AES-CTR keystream from SHA-256(domain || input) and hand that to
// Pick, the same Pick-from-stream contract random.New() satisfies for
// the non-deterministic case.
func (o *Ops) HashToPoint(domain byte, input []byte) kyber.Point {
	seed := sha256.Sum256(append([]byte{domain}, input...))
	block, err := aes.NewCipher(seed[:16])
	if err != nil {
		// seed[:16] is always 16 bytes; aes.NewCipher only errors on bad
		// key length.
		panic(fmt.Sprintf("group: hash-to-point cipher: %v", err))
	}
	iv := seed[16:] // remaining 16 bytes of the digest, used as CTR nonce
	stream := cipher.NewCTR(block, iv)
	return o.suite.Point().Pick(stream)
}

// Serialize encodes a point or scalar canonically; the result is
// usable as a map key (schemes 2 and 3 dictionary-key their
// ciphertexts by serialized group elements).
func Serialize(m kyber.Marshaling) ([]byte, error) {
	b, err := m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("group: serialize: %w", err)
	}
	return b, nil
}

// DeserializePoint decodes bytes produced by Serialize back into a
// point on the curve, failing with ErrMalformedCiphertext on a bad
// encoding or a point off the curve.
func (o *Ops) DeserializePoint(b []byte) (kyber.Point, error) {
	p := o.suite.Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: point: %v", nipsi.ErrMalformedCiphertext, err)
	}
	return p, nil
}

// DeserializeScalar decodes bytes produced by Serialize back into a
// scalar, failing with ErrMalformedCiphertext on a bad encoding.
func (o *Ops) DeserializeScalar(b []byte) (kyber.Scalar, error) {
	s := o.suite.Scalar()
	if err := s.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: scalar: %v", nipsi.ErrMalformedCiphertext, err)
	}
	return s, nil
}

// Exp computes p^s, i.e. the point p scaled by scalar s. When p is nil
// it computes g^s against this Ops instance's fixed generator G, which
// is chosen once per instance rather than hardcoded to the curve's
// distinguished base point.
func (o *Ops) Exp(s kyber.Scalar, p kyber.Point) kyber.Point {
	if p == nil {
		p = o.G
	}
	return o.suite.Point().Mul(s, p)
}

// Identity returns the group identity element, g^0.
func (o *Ops) Identity() kyber.Point {
	return o.suite.Point().Null()
}
