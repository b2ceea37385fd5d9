// Package poly implements the two pieces of polynomial algebra shared
// by scheme 3 (twoclient.Threshold) and scheme 5
// (multiclient.CardinalityEfficient): Shamir polynomial evaluation and
// Lagrange interpolation at x=0, both entirely within the kyber scalar
// field, plus the one piece of arithmetic that field does not model —
// modular exponentiation of one scalar by another, treated as plain
// integers in Z_q* — needed for scheme 3's rho-masked disclosure gate.
package poly

import (
	"math/big"

	"github.com/drand/kyber"
)

// EvalScalar evaluates f(x) = sum_i coeffs[i] * x^i via Horner's
// method, entirely in the scalar field (kyber.Scalar.Add/Mul).
// coeffs[0] is the constant term.
func EvalScalar(suite kyber.Group, coeffs []kyber.Scalar, x kyber.Scalar) kyber.Scalar {
	acc := suite.Scalar().Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = suite.Scalar().Mul(acc, x)
		acc = suite.Scalar().Add(acc, coeffs[i])
	}
	return acc
}

// Delta computes the Lagrange basis polynomial L_i(0) for the point
// set xs, i.e. prod_{x_j in xs, x_j != i} x_j * (x_j - i)^-1 — the
// reference's `delta(S, i)` in both twoclient.py's Threshold.eval and
// multiclient.py's CardinalityEfficient.eval.
func Delta(suite kyber.Group, xs []kyber.Scalar, i kyber.Scalar) kyber.Scalar {
	prod := suite.Scalar().One()
	for _, xj := range xs {
		if xj.Equal(i) {
			continue
		}
		diff := suite.Scalar().Sub(xj, i)
		inv := suite.Scalar().Inv(diff)
		term := suite.Scalar().Mul(xj, inv)
		prod = suite.Scalar().Mul(prod, term)
	}
	return prod
}

// Reconstruct0 recovers f(0) given t (x_i, y_i) pairs with y_i = f(x_i),
// via sum_i y_i * Delta(xs, x_i). Used by twoclient.Threshold.Eval to
// recover c0 once rho-masking has cancelled.
func Reconstruct0(suite kyber.Group, xs, ys []kyber.Scalar) kyber.Scalar {
	acc := suite.Scalar().Zero()
	for idx, xi := range xs {
		term := suite.Scalar().Mul(ys[idx], Delta(suite, xs, xi))
		acc = suite.Scalar().Add(acc, term)
	}
	return acc
}

// ScalarToBigInt reads a scalar's canonical big-endian encoding as an
// unsigned integer, the bridge between kyber's field arithmetic and
// the plain Z_q* modular exponentiation ModPow needs.
func ScalarToBigInt(s kyber.Scalar) (*big.Int, error) {
	b, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// BigIntToScalar reduces n modulo the scalar field's order (via
// Scalar.SetBytes, which kyber defines as a mod-q reduction) and
// returns the resulting scalar.
func BigIntToScalar(suite kyber.Group, n *big.Int) kyber.Scalar {
	return suite.Scalar().SetBytes(n.Bytes())
}

// ModPow computes base^exp mod modulus, where base is a scalar
// reinterpreted as a plain integer and exp is likewise a scalar's
// integer value (not its field-reduced residue) — scheme 3's
// `f(k2) ** rho`. kyber.Scalar has no exponentiation-by-an-integer
// primitive (Mul is field multiplication, not repeated squaring by an
// arbitrary exponent), so this step drops to math/big, the same way
// kyber's own scalar types are built on top of big.Int internally.
func ModPow(suite kyber.Group, base kyber.Scalar, exp kyber.Scalar, modulus *big.Int) (kyber.Scalar, error) {
	b, err := ScalarToBigInt(base)
	if err != nil {
		return nil, err
	}
	e, err := ScalarToBigInt(exp)
	if err != nil {
		return nil, err
	}
	r := new(big.Int).Exp(b, e, modulus)
	return BigIntToScalar(suite, r), nil
}

// ModMul computes a*b mod modulus with the same integer
// reinterpretation as ModPow — used to combine the two clients'
// rho-masked shares (f(x)^rho1 * f(x)^rho2 mod q) back into f(x).
func ModMul(suite kyber.Group, a, b kyber.Scalar, modulus *big.Int) (kyber.Scalar, error) {
	ai, err := ScalarToBigInt(a)
	if err != nil {
		return nil, err
	}
	bi, err := ScalarToBigInt(b)
	if err != nil {
		return nil, err
	}
	r := new(big.Int).Mod(new(big.Int).Mul(ai, bi), modulus)
	return BigIntToScalar(suite, r), nil
}
