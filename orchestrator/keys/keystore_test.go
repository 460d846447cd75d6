package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeystore(t *testing.T) (*Keystore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return New(store, DefaultAdapters("cosmos"), zerolog.Nop()), dir
}

func TestAddThenShow(t *testing.T) {
	ks, _ := newTestKeystore(t)

	added, err := ks.Add("alice", ChainEthereum, "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, added.Address)
	require.Len(t, added.PublicKey, 65)
	require.Empty(t, added.DerivationPath)

	shown, err := ks.Show("alice", ChainEthereum, "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, added.Address, shown.Address)
	assert.Equal(t, added.PublicKey, shown.PublicKey)
}

func TestAddUniqueness(t *testing.T) {
	ks, _ := newTestKeystore(t)

	_, err := ks.Add("bob", ChainCosmos, "pass")
	require.NoError(t, err)

	_, err = ks.Add("bob", ChainCosmos, "pass")
	require.ErrorIs(t, err, ErrNameExists)
}

func TestShowWrongPassphraseDoesNotMutate(t *testing.T) {
	ks, _ := newTestKeystore(t)

	added, err := ks.Add("alice", ChainCosmos, "right-pass")
	require.NoError(t, err)

	_, err = ks.Show("alice", ChainCosmos, "wrong-pass")
	require.ErrorIs(t, err, ErrDecryptionFailed)

	// The record survives a failed decryption intact.
	shown, err := ks.Show("alice", ChainCosmos, "right-pass")
	require.NoError(t, err)
	assert.Equal(t, added.Address, shown.Address)
}

func TestImportDeterministicRecovery(t *testing.T) {
	ks, _ := newTestKeystore(t)

	imported, err := ks.Import("signer", ChainEthereum, testMnemonic, "pass")
	require.NoError(t, err)
	require.Equal(t, "m/44'/60'/0'/0/0", imported.DerivationPath)

	// Delete, then recover from the same mnemonic: the address must come
	// back identical.
	require.NoError(t, ks.Delete("signer", ChainEthereum))

	recovered, err := ks.Import("signer", ChainEthereum, testMnemonic, "other-pass")
	require.NoError(t, err)
	assert.Equal(t, imported.Address, recovered.Address)
	assert.Equal(t, imported.PublicKey, recovered.PublicKey)
}

func TestImportAccountIndex(t *testing.T) {
	ks, _ := newTestKeystore(t)

	first, err := ks.Import("acct0", ChainCosmos, testMnemonic, "pass")
	require.NoError(t, err)
	second, err := ks.Import("acct3", ChainCosmos, testMnemonic, "pass", WithAccountIndex(3))
	require.NoError(t, err)

	assert.NotEqual(t, first.Address, second.Address)
	assert.Equal(t, "m/44'/118'/0'/0/3", second.DerivationPath)
}

func TestImportInvalidMnemonicWritesNothing(t *testing.T) {
	ks, dir := newTestKeystore(t)

	_, err := ks.Import("signer", ChainCosmos, "thirteen words is not a valid mnemonic length so this must fail here", "pass")
	require.ErrorIs(t, err, ErrInvalidMnemonic)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenameKeepsAddress(t *testing.T) {
	ks, _ := newTestKeystore(t)

	added, err := ks.Add("bob", ChainCosmos, "pass")
	require.NoError(t, err)

	require.NoError(t, ks.Rename("bob", "robert", ChainCosmos))

	entries, err := ks.List(ChainCosmos)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "robert", entries[0].Name)
	assert.Equal(t, added.Address, entries[0].Address)
}

func TestDeleteCompleteness(t *testing.T) {
	ks, _ := newTestKeystore(t)

	_, err := ks.Add("robert", ChainCosmos, "pass")
	require.NoError(t, err)

	require.NoError(t, ks.Delete("robert", ChainCosmos))

	_, err = ks.Show("robert", ChainCosmos, "any")
	require.ErrorIs(t, err, ErrKeyNotFound)

	entries, err := ks.List(ChainCosmos)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListNeverExposesSecrets(t *testing.T) {
	ks, _ := newTestKeystore(t)

	_, err := ks.Add("alice", ChainCosmos, "pass")
	require.NoError(t, err)
	_, err = ks.Add("bob", ChainCosmos, "pass")
	require.NoError(t, err)

	entries, err := ks.List(ChainCosmos)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Address)
	}
}

func TestInterruptedAddIsInvisible(t *testing.T) {
	ks, dir := newTestKeystore(t)

	_, err := ks.Add("alice", ChainCosmos, "pass")
	require.NoError(t, err)

	// Simulate a crash between temp write and rename.
	tmp := filepath.Join(dir, ".carol.tmp-998877")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"version":1`), 0o600))

	entries, err := ks.List(ChainCosmos)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Name)
}

func TestUnknownChain(t *testing.T) {
	ks, _ := newTestKeystore(t)

	_, err := ks.Add("alice", Chain("solana"), "pass")
	require.ErrorIs(t, err, ErrUnknownChain)
	_, err = ks.List(Chain("solana"))
	require.ErrorIs(t, err, ErrUnknownChain)
}

func TestParseChain(t *testing.T) {
	tests := []struct {
		in      string
		want    Chain
		wantErr bool
	}{
		{in: "cosmos", want: ChainCosmos},
		{in: "eth", want: ChainEthereum},
		{in: "ethereum", want: ChainEthereum},
		{in: "solana", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChain(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownChain)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
		})
	}
}
