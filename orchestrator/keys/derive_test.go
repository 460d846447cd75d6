package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Standard BIP39 test mnemonic.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateRandom(t *testing.T) {
	a := NewEthereumAdapter()

	priv1, err := GenerateRandom(a)
	require.NoError(t, err)
	require.Len(t, priv1, privKeySize)
	require.NoError(t, validateScalar(priv1))

	priv2, err := GenerateRandom(a)
	require.NoError(t, err)
	assert.NotEqual(t, priv1, priv2)
}

func TestDeriveFromMnemonicDeterminism(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
	}{
		{name: "cosmos", adapter: NewCosmosAdapter("cosmos")},
		{name: "ethereum", adapter: NewEthereumAdapter()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priv1, path1, err := DeriveFromMnemonic(testMnemonic, tt.adapter, 0)
			require.NoError(t, err)
			priv2, path2, err := DeriveFromMnemonic(testMnemonic, tt.adapter, 0)
			require.NoError(t, err)

			require.Equal(t, priv1, priv2)
			require.Equal(t, path1, path2)
			require.Equal(t, tt.adapter.HDPath(0), path1)

			pub1, err := tt.adapter.PublicKey(priv1)
			require.NoError(t, err)
			pub2, err := tt.adapter.PublicKey(priv2)
			require.NoError(t, err)
			require.Equal(t, pub1, pub2)

			addr1, err := tt.adapter.Address(pub1)
			require.NoError(t, err)
			addr2, err := tt.adapter.Address(pub2)
			require.NoError(t, err)
			require.Equal(t, addr1, addr2)
		})
	}
}

func TestDeriveFromMnemonicKnownEthereumVector(t *testing.T) {
	a := NewEthereumAdapter()

	priv, path, err := DeriveFromMnemonic(testMnemonic, a, 0)
	require.NoError(t, err)
	require.Equal(t, "m/44'/60'/0'/0/0", path)

	pub, err := a.PublicKey(priv)
	require.NoError(t, err)
	addr, err := a.Address(pub)
	require.NoError(t, err)

	// Reference wallet address for the standard test mnemonic.
	require.True(t, strings.EqualFold(addr, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"), "got %s", addr)
}

func TestDeriveFromMnemonicAccountIndex(t *testing.T) {
	a := NewEthereumAdapter()

	priv0, path0, err := DeriveFromMnemonic(testMnemonic, a, 0)
	require.NoError(t, err)
	priv7, path7, err := DeriveFromMnemonic(testMnemonic, a, 7)
	require.NoError(t, err)

	assert.NotEqual(t, priv0, priv7)
	assert.Equal(t, "m/44'/60'/0'/0/0", path0)
	assert.Equal(t, "m/44'/60'/0'/0/7", path7)
}

func TestDeriveFromMnemonicInvalid(t *testing.T) {
	a := NewCosmosAdapter("cosmos")

	tests := []struct {
		name     string
		mnemonic string
	}{
		{
			name:     "13 words",
			mnemonic: testMnemonic + " abandon",
		},
		{
			name: "bad checksum",
			// Final word swapped, checksum no longer matches.
			mnemonic: strings.Replace(testMnemonic, " about", " abandon", 1),
		},
		{
			name:     "word not in list",
			mnemonic: strings.Replace(testMnemonic, " about", " zzzzzz", 1),
		},
		{
			name:     "empty",
			mnemonic: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DeriveFromMnemonic(tt.mnemonic, a, 0)
			require.ErrorIs(t, err, ErrInvalidMnemonic)
		})
	}
}
