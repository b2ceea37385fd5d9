// Package prf implements the deterministic, AES-CBC-based PRF used
// throughout the scheme family: zero-pad the input to the next 16-byte
// multiple, encrypt it under AES with a fixed key and IV, and return
// the full ciphertext. The (key, iv) pair is fixed across one Encrypt
// call on a scheme, so varying the plaintext makes this behave as a PRF
// even though AES-CBC alone is not one.
package prf

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// KeySize is the AES-128 key length this package expects.
const KeySize = 16

// IVSize is the CBC IV length, equal to a Gid.
const IVSize = 16

// Eval computes the PRF of pt under key and iv. iv is typically a
// nipsi.Gid, reused as-is across every element encrypted in one
// Encrypt call so that equal plaintexts map to equal outputs within
// that call.
func Eval(key, iv, pt []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("prf: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("prf: iv must be %d bytes, got %d", block.BlockSize(), len(iv))
	}

	padded := pad(pt, block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// pad zero-pads pt up to the next multiple of blockSize, always adding
// at least one byte of padding (matching the reference's
// `16 - (len(pt) % 16)`, which pads a full block of zeros when pt is
// already block-aligned).
func pad(pt []byte, blockSize int) []byte {
	padLen := blockSize - (len(pt) % blockSize)
	out := make([]byte, len(pt)+padLen)
	copy(out, pt)
	return out
}
