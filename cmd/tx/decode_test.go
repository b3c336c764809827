package tx_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-zkwallet/cmd/tx"
	"github/chapool/go-zkwallet/internal/eip712"
)

const testPrivateKey = "28a574ab2de8a00364d5dd4b07c4f2f574ef7fcc2a86a197f65abaec836d1959"

var testTo = common.HexToAddress("0xa61464658AfeAf65CccaaFD3a512b69A83B77618")

func signedTransfer(t *testing.T) (*eip712.SignedTransaction, common.Address) {
	t.Helper()

	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	req := eip712.NewTransactionRequest().
		WithFrom(from).
		WithTo(testTo).
		WithValue(uint256.NewInt(7)).
		WithNonce(3).
		WithGasLimit(21000).
		WithMaxFeePerGas(uint256.NewInt(250000000)).
		WithCustomData(eip712.NewCustomData().WithPaymasterParams(testTo, []byte{0x01}))

	signable, err := req.Prepare()
	require.NoError(t, err)
	sig, err := crypto.Sign(signable.Hash().Bytes(), key)
	require.NoError(t, err)
	signed, err := signable.AttachSignature(sig)
	require.NoError(t, err)

	return signed, from
}

func TestNewView(t *testing.T) {
	signed, from := signedTransfer(t)

	view := tx.NewView(signed)

	assert.Equal(t, signed.Hash(), view.Hash)
	assert.Equal(t, signed.SigningHash(), view.SigningHash)
	require.NotNil(t, view.Sender)
	assert.Equal(t, from, *view.Sender)
	assert.Equal(t, from, view.From)
	require.NotNil(t, view.To)
	assert.Equal(t, testTo, *view.To)
	assert.Equal(t, hexutil.Uint64(3), view.Nonce)
	assert.Equal(t, int64(7), view.Value.ToInt().Int64())
	// An unset priority fee is signed as zero
	assert.Equal(t, int64(250000000), view.MaxFeePerGas.ToInt().Int64())
	assert.Equal(t, int64(0), view.MaxPriorityFeePerGas.ToInt().Int64())
	assert.Equal(t, hexutil.Uint64(eip712.EraChainID), view.ChainID)
	assert.Equal(t, hexutil.Uint64(eip712.DefaultGasPerPubdataLimit), view.GasPerPubdata)
	assert.Empty(t, view.FactoryDeps)
	require.NotNil(t, view.Paymaster)
	assert.Equal(t, testTo, *view.Paymaster)
	assert.Equal(t, hexutil.Bytes{0x01}, view.PaymasterInput)
	assert.Len(t, view.CustomSignature, 65)
}

func TestDecodeCommand(t *testing.T) {
	signed, from := signedTransfer(t)
	raw, err := signed.Serialize()
	require.NoError(t, err)

	cmd := tx.New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"decode", hexutil.Encode(raw)})
	require.NoError(t, cmd.Execute())

	var view tx.View
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, signed.Hash(), view.Hash)
	assert.Equal(t, from, view.From)
	require.NotNil(t, view.Sender)
	assert.Equal(t, from, *view.Sender)
}

func TestDecodeCommandInvalid(t *testing.T) {
	for _, arg := range []string{"zz", "0x02c0"} {
		cmd := tx.New()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"decode", arg})

		err := cmd.Execute()
		assert.ErrorIs(t, err, eip712.ErrInvalidInput, arg)
	}
}
