package twoclient

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/aead"
	"github.com/CRIPTIM/nipsi/group"
	"github.com/CRIPTIM/nipsi/internal/log"
	"github.com/CRIPTIM/nipsi/prf"
)

// IntersectionUsk is one client's share of the split exponent sigma:
// client 0 gets sigma, client 1 gets 1-sigma, so that multiplying
// their ct1 values back together recovers k = phi(x).
type IntersectionUsk struct {
	Msk   []byte
	Sigma kyber.Scalar
}

// IntersectionCt is one ciphertext entry: the sigma-masked point (ct1)
// and the deterministically-keyed AEAD encryption of the plaintext
// (ct2), indexed by the AEAD key itself.
type IntersectionCt struct {
	Ct1       []byte
	AeNonce   []byte
	Ct2       []byte
}

// IntersectionCtSet maps an AEAD key to its ciphertext entry.
type IntersectionCtSet map[string]IntersectionCt

// Intersection is the Two-Client Set Intersect scheme: a deterministic
// group element phi(x) = g^(PRF(msk,gid,x) mod q) is split
// multiplicatively via sigma/(1-sigma) so that neither ciphertext alone
// recovers phi(x), but the two together do, via point addition in the
// additively-written EC group.
type Intersection struct {
	Ops    *group.Ops
	logger log.Logger
}

// NewIntersection constructs scheme #2 against a fresh group instance.
// A nil logger falls back to log.DefaultLogger().
func NewIntersection(logger log.Logger) *Intersection {
	return &Intersection{Ops: group.New(), logger: orDefaultLogger(logger)}
}

// Setup draws msk and sigma, handing (msk, sigma) to client 0 and
// (msk, 1-sigma) to client 1.
func (s *Intersection) Setup(secpar int) (usk0, usk1 IntersectionUsk, err error) {
	s.logger.Debugw("intersection setup", "secpar", secpar)
	msk, err := randomBytes(secpar)
	if err != nil {
		return IntersectionUsk{}, IntersectionUsk{}, err
	}
	sigma := s.Ops.RandomScalar()
	one := s.Ops.Suite().Scalar().One()
	oneMinusSigma := s.Ops.Suite().Scalar().Sub(one, sigma)

	return IntersectionUsk{Msk: msk, Sigma: sigma},
		IntersectionUsk{Msk: msk, Sigma: oneMinusSigma}, nil
}

// Encrypt builds one ciphertext entry per plaintext element.
func (s *Intersection) Encrypt(usk IntersectionUsk, gid nipsi.Gid, ptSet [][]byte) (IntersectionCtSet, error) {
	s.logger.Debugw("intersection encrypt", "gid", gid, "set_size", len(ptSet))
	out := make(IntersectionCtSet, len(ptSet))
	for _, pt := range ptSet {
		k, err := s.phi(usk.Msk, gid, pt)
		if err != nil {
			return nil, err
		}
		ct1Point := s.Ops.Exp(usk.Sigma, k)
		ct1, err := group.Serialize(ct1Point)
		if err != nil {
			return nil, fmt.Errorf("twoclient: intersection encrypt: %w", err)
		}

		aeKey, aeNonce, err := deriveAEKeyNonce(k)
		if err != nil {
			return nil, err
		}
		ct2, err := aead.Seal(aeKey, aeNonce, pt, nil)
		if err != nil {
			return nil, fmt.Errorf("twoclient: intersection encrypt: %w", err)
		}

		out[string(aeKey)] = IntersectionCt{Ct1: ct1, AeNonce: aeNonce, Ct2: ct2}
	}
	return out, nil
}

// Eval recovers the plaintext intersection.
func (s *Intersection) Eval(ctSets [2]IntersectionCtSet) (map[string][]byte, error) {
	s.logger.Debugw("intersection eval", "set0_size", len(ctSets[0]), "set1_size", len(ctSets[1]))
	result := make(map[string][]byte)
	for aeKey, entry0 := range ctSets[0] {
		entry1, ok := ctSets[1][aeKey]
		if !ok {
			continue
		}

		g1, err := s.Ops.DeserializePoint(entry0.Ct1)
		if err != nil {
			return nil, err
		}
		g2, err := s.Ops.DeserializePoint(entry1.Ct1)
		if err != nil {
			return nil, err
		}
		key := s.Ops.Suite().Point().Add(g1, g2)

		recoveredAeKey, _, err := deriveAEKeyNonce(key)
		if err != nil {
			return nil, err
		}

		pt, err := aead.Open(recoveredAeKey, entry0.AeNonce, entry0.Ct2, nil)
		if err != nil {
			return nil, fmt.Errorf("twoclient: intersection eval: %w", err)
		}
		result[aeKey] = pt
	}
	return result, nil
}

// phi is scheme 2's PRF-to-group-element map: g^(PRF(msk, gid, x) mod q).
// Threshold.Encrypt computes its k1 the same way inline.
func (s *Intersection) phi(msk []byte, gid nipsi.Gid, pt []byte) (kyber.Point, error) {
	out, err := prf.Eval(msk, gid[:], pt)
	if err != nil {
		return nil, fmt.Errorf("twoclient: phi: %w", err)
	}
	return s.Ops.Exp(s.Ops.ScalarFromBytes(out), nil), nil
}
