package keys

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// CosmosAdapter encodes keys for a Cosmos-SDK chain: compressed secp256k1
// public keys and bech32 addresses. The bech32 prefix is explicit
// configuration, not process-global SDK state.
type CosmosAdapter struct {
	bech32Prefix string
}

var _ Adapter = (*CosmosAdapter)(nil)

// NewCosmosAdapter creates a cosmos adapter with the given account address
// prefix, e.g. "cosmos".
func NewCosmosAdapter(bech32Prefix string) *CosmosAdapter {
	return &CosmosAdapter{bech32Prefix: bech32Prefix}
}

func (a *CosmosAdapter) Chain() Chain {
	return ChainCosmos
}

func (a *CosmosAdapter) HDPath(accountIndex uint32) string {
	return fmt.Sprintf("m/44'/118'/0'/0/%d", accountIndex)
}

// PublicKey returns the 33-byte compressed secp256k1 public key.
func (a *CosmosAdapter) PublicKey(priv []byte) ([]byte, error) {
	if err := validateScalar(priv); err != nil {
		return nil, fmt.Errorf("invalid cosmos private key: %w", err)
	}
	k := secp256k1.PrivKey{Key: priv}
	return k.PubKey().Bytes(), nil
}

// Address hashes the compressed public key (sha256 then ripemd160) and
// bech32-encodes the result under the configured prefix.
func (a *CosmosAdapter) Address(pub []byte) (string, error) {
	if len(pub) != secp256k1.PubKeySize {
		return "", fmt.Errorf("compressed public key must be %d bytes, got %d", secp256k1.PubKeySize, len(pub))
	}
	pk := secp256k1.PubKey{Key: pub}
	addr, err := bech32.ConvertAndEncode(a.bech32Prefix, pk.Address())
	if err != nil {
		return "", fmt.Errorf("bech32 encode address: %w", err)
	}
	return addr, nil
}

func (a *CosmosAdapter) SerializePrivateKey(priv []byte) ([]byte, error) {
	if err := validateScalar(priv); err != nil {
		return nil, fmt.Errorf("invalid cosmos private key: %w", err)
	}
	return append([]byte(nil), priv...), nil
}

func (a *CosmosAdapter) ParsePrivateKey(raw []byte) ([]byte, error) {
	if err := validateScalar(raw); err != nil {
		return nil, fmt.Errorf("invalid cosmos private key encoding: %w", err)
	}
	return append([]byte(nil), raw...), nil
}
