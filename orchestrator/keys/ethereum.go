package keys

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EthereumAdapter encodes keys for an Ethereum-style chain: uncompressed
// secp256k1 public keys and keccak-derived addresses with EIP-55 checksum
// casing.
type EthereumAdapter struct{}

var _ Adapter = (*EthereumAdapter)(nil)

func NewEthereumAdapter() *EthereumAdapter {
	return &EthereumAdapter{}
}

func (a *EthereumAdapter) Chain() Chain {
	return ChainEthereum
}

func (a *EthereumAdapter) HDPath(accountIndex uint32) string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", accountIndex)
}

// PublicKey returns the 65-byte uncompressed secp256k1 public key.
func (a *EthereumAdapter) PublicKey(priv []byte) ([]byte, error) {
	key, err := ethcrypto.ToECDSA(priv)
	if err != nil {
		return nil, fmt.Errorf("invalid ethereum private key: %w", err)
	}
	return ethcrypto.FromECDSAPub(&key.PublicKey), nil
}

// Address keccak-hashes the uncompressed public key, keeps the trailing 20
// bytes and hex-encodes them with EIP-55 mixed-case checksumming.
func (a *EthereumAdapter) Address(pub []byte) (string, error) {
	key, err := ethcrypto.UnmarshalPubkey(pub)
	if err != nil {
		return "", fmt.Errorf("invalid ethereum public key: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*key).Hex(), nil
}

func (a *EthereumAdapter) SerializePrivateKey(priv []byte) ([]byte, error) {
	if err := validateScalar(priv); err != nil {
		return nil, fmt.Errorf("invalid ethereum private key: %w", err)
	}
	return append([]byte(nil), priv...), nil
}

func (a *EthereumAdapter) ParsePrivateKey(raw []byte) ([]byte, error) {
	if err := validateScalar(raw); err != nil {
		return nil, fmt.Errorf("invalid ethereum private key encoding: %w", err)
	}
	return append([]byte(nil), raw...), nil
}
