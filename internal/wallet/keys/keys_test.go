package keys_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/wallet/keys"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestFromHex(t *testing.T) {
	const hexKey = "28a574ab2de8a00364d5dd4b07c4f2f574ef7fcc2a86a197f65abaec836d1959"

	key, err := keys.FromHex(hexKey)
	require.NoError(t, err)

	prefixed, err := keys.FromHex("0x" + hexKey + "\n")
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(prefixed))

	_, err = keys.FromHex("0x1234")
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))
}

func TestFromMnemonic(t *testing.T) {
	key, err := keys.FromMnemonic(testMnemonic, "", "")
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"),
		crypto.PubkeyToAddress(key.PublicKey),
	)

	second, err := keys.FromMnemonic(testMnemonic, "", "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(second.PublicKey))

	withPassphrase, err := keys.FromMnemonic(testMnemonic, "secret", "")
	require.NoError(t, err)
	assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(withPassphrase.PublicKey))
}

func TestFromMnemonicInvalid(t *testing.T) {
	_, err := keys.FromMnemonic("abandon abandon", "", "")
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))

	_, err = keys.FromMnemonic(testMnemonic, "", "n/44'/x")
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))
}

func TestNewMnemonic(t *testing.T) {
	mnemonic, err := keys.NewMnemonic()
	require.NoError(t, err)
	assert.True(t, bip39.IsMnemonicValid(mnemonic))

	_, err = keys.FromMnemonic(mnemonic, "", "")
	require.NoError(t, err)
}

func TestKeystoreRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	keyJSON, err := keys.EncryptKeystore(key, "password", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	decrypted, err := keys.FromKeystore(keyJSON, "password")
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(decrypted))

	_, err = keys.FromKeystore(keyJSON, "wrong")
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))
}
