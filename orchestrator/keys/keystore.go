package keys

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// KeyInfo is the public identity of a stored key: everything Show may
// surface, and nothing more. Private key bytes never cross this boundary.
type KeyInfo struct {
	Name           string
	Chain          Chain
	Address        string
	PublicKey      []byte
	DerivationPath string
}

// Keystore composes the derivation engine, chain adapters, secret codec
// and record store into the operations the command layer consumes. All
// operations are synchronous; passphrases and decrypted key material live
// only for the duration of a single call.
type Keystore struct {
	store    *Store
	adapters map[Chain]Adapter
	log      zerolog.Logger
}

// New builds a Keystore over store with the given chain adapters.
func New(store *Store, adapters []Adapter, log zerolog.Logger) *Keystore {
	m := make(map[Chain]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Chain()] = a
	}
	return &Keystore{
		store:    store,
		adapters: m,
		log:      log.With().Str("module", "keys").Logger(),
	}
}

// DefaultAdapters returns the adapter set for the two supported chains.
func DefaultAdapters(bech32Prefix string) []Adapter {
	return []Adapter{NewCosmosAdapter(bech32Prefix), NewEthereumAdapter()}
}

// ImportOption tweaks Import behavior.
type ImportOption func(*importOptions)

type importOptions struct {
	accountIndex uint32
}

// WithAccountIndex selects a BIP44 account index other than 0.
func WithAccountIndex(i uint32) ImportOption {
	return func(o *importOptions) { o.accountIndex = i }
}

func (k *Keystore) adapter(chain Chain) (Adapter, error) {
	a, ok := k.adapters[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	return a, nil
}

// Add generates a fresh random key for chain, encrypts it under passphrase
// and stores it as name. Randomly generated keys carry no derivation path.
func (k *Keystore) Add(name string, chain Chain, passphrase string) (*KeyInfo, error) {
	a, err := k.adapter(chain)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	priv, err := GenerateRandom(a)
	if err != nil {
		return nil, err
	}
	defer zero(priv)

	info, err := k.seal(name, a, priv, "", passphrase)
	if err != nil {
		return nil, err
	}
	k.log.Info().
		Str("name", name).
		Str("chain", string(chain)).
		Str("address", info.Address).
		Msg("Key added")
	return info, nil
}

// Import derives a key from a BIP39 mnemonic and stores it as name. The
// mnemonic is validated before anything touches the store, so a bad
// phrase can never leave a partial record behind.
func (k *Keystore) Import(name string, chain Chain, mnemonic, passphrase string, opts ...ImportOption) (*KeyInfo, error) {
	a, err := k.adapter(chain)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var o importOptions
	for _, opt := range opts {
		opt(&o)
	}

	priv, path, err := DeriveFromMnemonic(mnemonic, a, o.accountIndex)
	if err != nil {
		return nil, err
	}
	defer zero(priv)

	info, err := k.seal(name, a, priv, path, passphrase)
	if err != nil {
		return nil, err
	}
	k.log.Info().
		Str("name", name).
		Str("chain", string(chain)).
		Str("address", info.Address).
		Str("path", path).
		Msg("Key imported")
	return info, nil
}

// seal runs the shared adapt, encrypt, store tail of Add and Import.
func (k *Keystore) seal(name string, a Adapter, priv []byte, path, passphrase string) (*KeyInfo, error) {
	pub, err := a.PublicKey(priv)
	if err != nil {
		return nil, err
	}
	addr, err := a.Address(pub)
	if err != nil {
		return nil, err
	}

	serialized, err := a.SerializePrivateKey(priv)
	if err != nil {
		return nil, err
	}
	defer zero(serialized)

	sec, err := EncryptSecret(serialized, passphrase)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Version:        recordVersion,
		Chain:          a.Chain(),
		PublicKey:      pub,
		Address:        addr,
		DerivationPath: path,
		CreatedAt:      time.Now().UTC(),
		Secret:         sec,
	}
	if err := k.store.Add(name, a.Chain(), rec); err != nil {
		return nil, err
	}
	return &KeyInfo{
		Name:           name,
		Chain:          a.Chain(),
		Address:        addr,
		PublicKey:      pub,
		DerivationPath: path,
	}, nil
}

// Delete permanently removes the record. Recovery is only possible by
// re-importing the original mnemonic.
func (k *Keystore) Delete(name string, chain Chain) error {
	if _, err := k.adapter(chain); err != nil {
		return err
	}
	if err := k.store.Delete(name, chain); err != nil {
		return err
	}
	k.log.Info().
		Str("name", name).
		Str("chain", string(chain)).
		Msg("Key deleted")
	return nil
}

// Rename relabels a record in place. Key material is never re-read,
// re-derived or re-encrypted.
func (k *Keystore) Rename(oldName, newName string, chain Chain) error {
	if _, err := k.adapter(chain); err != nil {
		return err
	}
	if err := k.store.Rename(oldName, newName, chain); err != nil {
		return err
	}
	k.log.Info().
		Str("old_name", oldName).
		Str("new_name", newName).
		Str("chain", string(chain)).
		Msg("Key renamed")
	return nil
}

// List returns the public identity of every readable key in the chain's
// namespace. Secrets are never decrypted.
func (k *Keystore) List(chain Chain) ([]Entry, error) {
	if _, err := k.adapter(chain); err != nil {
		return nil, err
	}
	return k.store.List(chain)
}

// Show decrypts name's key under passphrase and returns its public
// identity, recomputed from the private key so the displayed address
// cannot disagree with the stored key material.
func (k *Keystore) Show(name string, chain Chain, passphrase string) (*KeyInfo, error) {
	a, err := k.adapter(chain)
	if err != nil {
		return nil, err
	}

	rec, err := k.store.Get(name, chain)
	if err != nil {
		return nil, err
	}

	serialized, err := DecryptSecret(rec.Secret, passphrase)
	if err != nil {
		if errors.Is(err, ErrDecryptionFailed) {
			return nil, fmt.Errorf("%w: %s key %q", ErrDecryptionFailed, chain, name)
		}
		return nil, err
	}
	defer zero(serialized)

	priv, err := a.ParsePrivateKey(serialized)
	if err != nil {
		return nil, fmt.Errorf("%w: %s key %q: %v", ErrCorruptRecord, chain, name, err)
	}
	defer zero(priv)

	pub, err := a.PublicKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s key %q: %v", ErrCorruptRecord, chain, name, err)
	}
	addr, err := a.Address(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %s key %q: %v", ErrCorruptRecord, chain, name, err)
	}

	return &KeyInfo{
		Name:           name,
		Chain:          chain,
		Address:        addr,
		PublicKey:      pub,
		DerivationPath: rec.DerivationPath,
	}, nil
}
