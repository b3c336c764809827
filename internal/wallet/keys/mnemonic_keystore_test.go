package keys_test

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/wallet/keys"
)

func TestMnemonicKeystoreRoundTrip(t *testing.T) {
	sealed, err := keys.SealMnemonic(" "+testMnemonic+"\n", "pw", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	var ks keys.MnemonicKeystore
	require.NoError(t, json.Unmarshal(sealed, &ks))
	assert.Equal(t, 3, ks.Version)
	assert.Equal(t, "aes-128-ctr", ks.Crypto.Cipher)
	assert.Equal(t, "scrypt", ks.Crypto.KDF)
	assert.Equal(t, keystore.LightScryptN, ks.Crypto.KDFParams.N)
	assert.NotContains(t, string(sealed), "abandon")

	mnemonic, err := keys.OpenMnemonic(sealed, "pw")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)

	_, err = keys.OpenMnemonic(sealed, "wrong")
	assert.ErrorIs(t, err, eip712.ErrInvalidInput)
}

func TestMnemonicKeystoreInvalid(t *testing.T) {
	_, err := keys.SealMnemonic("not a mnemonic", "pw", keystore.LightScryptN, keystore.LightScryptP)
	assert.ErrorIs(t, err, eip712.ErrInvalidInput)

	_, err = keys.OpenMnemonic([]byte("{"), "pw")
	assert.ErrorIs(t, err, eip712.ErrInvalidInput)

	_, err = keys.OpenMnemonic([]byte(`{"version":1}`), "pw")
	assert.ErrorIs(t, err, eip712.ErrInvalidInput)
}
