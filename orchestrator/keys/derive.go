package keys

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	bip39 "github.com/cosmos/go-bip39"
)

// maxScalarDraws bounds rejection sampling in GenerateRandom. A uniform
// 32-byte draw misses the secp256k1 group order with probability below
// 2^-127, so repeated misses mean the entropy source is broken.
const maxScalarDraws = 4

// GenerateRandom draws a fresh private scalar for adapter's curve from the
// system entropy source.
func GenerateRandom(adapter Adapter) ([]byte, error) {
	for i := 0; i < maxScalarDraws; i++ {
		buf := make([]byte, privKeySize)
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
		}
		if err := validateScalar(buf); err != nil {
			zero(buf)
			continue
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: no valid scalar after %d draws", ErrEntropySource, maxScalarDraws)
}

// DeriveFromMnemonic validates a BIP39 mnemonic, expands it to a seed with
// an empty passphrase, and walks the chain's BIP44 path to the leaf
// private key. The same mnemonic and account index always yield the same
// key; that determinism is how an operator recovers a deleted key.
func DeriveFromMnemonic(mnemonic string, adapter Adapter, accountIndex uint32) (priv []byte, path string, err error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, "", fmt.Errorf("%w: word count or checksum rejected", ErrInvalidMnemonic)
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	defer zero(seed)

	path = adapter.HDPath(accountIndex)
	master, ch := hd.ComputeMastersFromSeed(seed)
	priv, err = hd.DerivePrivateKeyForPath(master, ch, path)
	if err != nil {
		return nil, "", fmt.Errorf("derive path %s: %w", path, err)
	}
	if err := validateScalar(priv); err != nil {
		zero(priv)
		return nil, "", fmt.Errorf("derived key for path %s: %w", path, err)
	}
	return priv, path, nil
}

// zero wipes b in place. Callers use it to keep raw key material from
// outliving the operation that needed it.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
