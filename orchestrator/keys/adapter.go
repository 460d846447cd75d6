package keys

import (
	"fmt"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// privKeySize is the canonical private scalar encoding for both supported
// chains (secp256k1 big-endian, fixed width).
const privKeySize = 32

// Adapter is the per-chain capability set: given a raw private scalar it
// computes the chain's public key and address encodings. Implementations
// are stateless and safe for reuse; adding a chain means adding one
// Adapter, never editing the derivation engine, codec or store.
type Adapter interface {
	Chain() Chain

	// HDPath returns the chain's BIP44 derivation path for accountIndex.
	HDPath(accountIndex uint32) string

	// PublicKey computes the chain's canonical public key bytes for priv.
	PublicKey(priv []byte) ([]byte, error)

	// Address encodes the chain-native address string for pub.
	Address(pub []byte) (string, error)

	// SerializePrivateKey returns the canonical fixed-width encoding of
	// priv. The output is only ever fed to the secret codec, never
	// written unencrypted.
	SerializePrivateKey(priv []byte) ([]byte, error)

	// ParsePrivateKey is the inverse of SerializePrivateKey.
	ParsePrivateKey(raw []byte) ([]byte, error)
}

// validateScalar rejects encodings that are not valid secp256k1 private
// scalars: wrong length, zero, or not below the group order.
func validateScalar(b []byte) error {
	if len(b) != privKeySize {
		return fmt.Errorf("private key must be %d bytes, got %d", privKeySize, len(b))
	}
	var s secp.ModNScalar
	overflow := s.SetByteSlice(b)
	defer s.Zero()
	if overflow || s.IsZero() {
		return fmt.Errorf("private key scalar out of range")
	}
	return nil
}
