package eip712_test

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-zkwallet/internal/eip712"
)

const testPrivateKey = "28a574ab2de8a00364d5dd4b07c4f2f574ef7fcc2a86a197f65abaec836d1959"

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()

	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)

	return key
}

func signRequest(t *testing.T, key *ecdsa.PrivateKey, req *eip712.TransactionRequest) *eip712.SignedTransaction {
	t.Helper()

	signable, err := req.Prepare()
	require.NoError(t, err)

	sig, err := crypto.Sign(signable.Hash().Bytes(), key)
	require.NoError(t, err)

	signed, err := signable.AttachSignature(sig)
	require.NoError(t, err)

	return signed
}

func TestSignSerializeDecode(t *testing.T) {
	key := testKey(t)
	from := crypto.PubkeyToAddress(key.PublicKey)

	signed := signRequest(t, key, newTransferRequest(from))

	raw, err := signed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, eip712.TxType, raw[0])

	binary, err := signed.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, raw, binary)

	sig := signed.Signature()
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	sender, err := signed.Sender()
	require.NoError(t, err)
	assert.Equal(t, from, sender)

	decoded, err := eip712.Decode(raw)
	require.NoError(t, err)

	req := decoded.Request()
	require.NotNil(t, req.To)
	assert.Equal(t, testTo, *req.To)
	assert.Equal(t, from, req.From)
	assert.Equal(t, uint256.NewInt(1), req.Value)
	assert.Equal(t, uint64(0), req.Nonce)
	assert.Equal(t, uint64(21000), req.GasLimit)
	assert.Equal(t, uint256.NewInt(100), req.MaxFeePerGas)
	assert.Equal(t, uint256.NewInt(10), req.MaxPriorityFeePerGas)
	assert.Equal(t, eip712.EraChainID, req.ChainID)
	assert.Equal(t, eip712.DefaultGasPerPubdataLimit, req.CustomData.GasPerPubdata)
	assert.Nil(t, req.CustomData.PaymasterParams)
	assert.Empty(t, req.CustomData.FactoryDeps)

	assert.Equal(t, signed.SigningHash(), decoded.SigningHash())
	assert.Equal(t, signed.Hash(), decoded.Hash())
	assert.Equal(t, sig, decoded.Signature())

	decodedSender, err := decoded.Sender()
	require.NoError(t, err)
	assert.Equal(t, from, decodedSender)

	reencoded, err := decoded.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, reencoded)
}

func TestZeroPriorityFeeRoundTrip(t *testing.T) {
	key := testKey(t)
	from := crypto.PubkeyToAddress(key.PublicKey)

	// Estimators usually report a zero priority fee
	req := newTransferRequest(from).ApplyFee(&eip712.Fee{
		GasLimit:             21000,
		MaxFeePerGas:         uint256.NewInt(100),
		MaxPriorityFeePerGas: uint256.NewInt(0),
	})

	tx, err := req.TypedTransaction()
	require.NoError(t, err)
	assert.True(t, tx.MaxPriorityFeePerGas.IsZero())

	signed := signRequest(t, key, req)
	raw, err := signed.Serialize()
	require.NoError(t, err)

	decoded, err := eip712.Decode(raw)
	require.NoError(t, err)

	out := decoded.Request()
	assert.True(t, out.MaxPriorityFeePerGas.IsZero())
	assert.Equal(t, uint256.NewInt(100), out.MaxFeePerGas)
	assert.Equal(t, signed.SigningHash(), decoded.SigningHash())

	// A nil priority fee signs the same as an explicit zero
	req.MaxPriorityFeePerGas = nil
	hash, err := req.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, signed.SigningHash(), hash)
}

func TestSerializeKnownAnswer(t *testing.T) {
	key := testKey(t)
	from := crypto.PubkeyToAddress(key.PublicKey)
	require.Equal(t, common.HexToAddress("0xbd29a1b981925b94eec5c4f1125af02a2ec4d1ca"), from)

	signed := signRequest(t, key, newTransferRequest(from))

	assert.Equal(t,
		common.HexToHash("0x5bdd0a98d9b748b9ae0204ae134a588f7ee4bac891fafdf4e2004ff957d051c1"),
		signed.SigningHash())
	assert.Equal(t,
		"0xbc110676dfaafdcf578ab33602ece3d3f9a3375dd736e3017e99eadf2200e5d5"+
			"638bc36d9cbd40a6775216462ae3598a339e8b348a9ecf31c122a1027681326d1c",
		hexutil.Encode(signed.Signature()))

	raw, err := signed.Serialize()
	require.NoError(t, err)
	assert.Equal(t,
		"0x71f882800a6482520894a61464658afeaf65cccaafd3a512b69a83b77618018082010e808082010e"+
			"94bd29a1b981925b94eec5c4f1125af02a2ec4d1ca82c350c0b841"+
			"bc110676dfaafdcf578ab33602ece3d3f9a3375dd736e3017e99eadf2200e5d5"+
			"638bc36d9cbd40a6775216462ae3598a339e8b348a9ecf31c122a1027681326d1c"+
			"c0",
		hexutil.Encode(raw))

	assert.Equal(t,
		common.HexToHash("0x88d18beaf2e255dcb250ccd2e22cbaaea4392ce78f3b919bfc4ef1ef056a5690"),
		signed.Hash())
}

func TestTransactionHash(t *testing.T) {
	key := testKey(t)
	signed := signRequest(t, key, newTransferRequest(crypto.PubkeyToAddress(key.PublicKey)))

	expected := crypto.Keccak256Hash(signed.SigningHash().Bytes(), crypto.Keccak256(signed.Signature()))
	assert.Equal(t, expected, signed.Hash())
	assert.NotEqual(t, signed.SigningHash(), signed.Hash())
}

func TestAttachSignatureRecoveryID(t *testing.T) {
	key := testKey(t)
	signable, err := newTransferRequest(crypto.PubkeyToAddress(key.PublicKey)).Prepare()
	require.NoError(t, err)

	sig, err := crypto.Sign(signable.Hash().Bytes(), key)
	require.NoError(t, err)

	raw, err := signable.AttachSignature(sig)
	require.NoError(t, err)

	shifted := append([]byte{}, sig...)
	shifted[64] += 27
	normalized, err := signable.AttachSignature(shifted)
	require.NoError(t, err)

	assert.Equal(t, raw.Signature(), normalized.Signature())
	assert.Equal(t, sig[:64], raw.Signature()[:64])

	// The caller's buffer is not modified
	assert.Less(t, sig[64], byte(27))
}

func TestAttachSignatureRejects(t *testing.T) {
	key := testKey(t)
	signable, err := newTransferRequest(crypto.PubkeyToAddress(key.PublicKey)).Prepare()
	require.NoError(t, err)

	_, err = signable.AttachSignature(make([]byte, 64))
	assert.True(t, errors.Is(err, eip712.ErrInvalidSignature))
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))

	sig, err := crypto.Sign(signable.Hash().Bytes(), key)
	require.NoError(t, err)
	sig[64] = 5
	_, err = signable.AttachSignature(sig)
	assert.True(t, errors.Is(err, eip712.ErrInvalidSignature))

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	foreign, err := crypto.Sign(signable.Hash().Bytes(), other)
	require.NoError(t, err)
	_, err = signable.AttachSignature(foreign)
	assert.True(t, errors.Is(err, eip712.ErrSignatureMismatch))
	assert.True(t, errors.Is(err, eip712.ErrSigning))
}

func TestAttachCustomSignature(t *testing.T) {
	signable, err := newTransferRequest(testFrom).Prepare()
	require.NoError(t, err)

	_, err = signable.AttachCustomSignature(nil)
	assert.True(t, errors.Is(err, eip712.ErrInvalidSignature))

	custom := []byte{0xca, 0xfe, 0xba, 0xbe}
	signed, err := signable.AttachCustomSignature(custom)
	require.NoError(t, err)
	assert.Equal(t, custom, signed.Signature())

	_, err = signed.Sender()
	assert.True(t, errors.Is(err, eip712.ErrInvalidSignature))

	raw, err := signed.Serialize()
	require.NoError(t, err)

	decoded, err := eip712.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, custom, decoded.Signature())
	assert.Equal(t, signable.Hash(), decoded.SigningHash())
}

func TestSealPresetSignature(t *testing.T) {
	req := newTransferRequest(testFrom)
	signable, err := req.Prepare()
	require.NoError(t, err)

	_, err = signable.SealPresetSignature()
	assert.True(t, errors.Is(err, eip712.ErrInvalidSignature))

	req.CustomData.WithCustomSignature([]byte{0x01, 0x02, 0x03})
	signable, err = req.Prepare()
	require.NoError(t, err)

	signed, err := signable.SealPresetSignature()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, signed.Signature())
}

func TestSignedWithCustomData(t *testing.T) {
	key := testKey(t)
	from := crypto.PubkeyToAddress(key.PublicKey)

	depA := make([]byte, 32)
	depB := make([]byte, 96)
	depB[0] = 0x42

	req := newTransferRequest(from).WithData([]byte{0x12, 0x34, 0x56, 0x78})
	req.CustomData.
		WithGasPerPubdata(800).
		WithFactoryDeps(depA, depB).
		WithPaymasterParams(testTo, []byte{0x8c, 0x5a, 0x34, 0x45})

	signed := signRequest(t, key, req)
	raw, err := signed.Serialize()
	require.NoError(t, err)

	decoded, err := eip712.Decode(raw)
	require.NoError(t, err)

	out := decoded.Request()
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, out.Data)
	assert.Equal(t, uint64(800), out.CustomData.GasPerPubdata)
	assert.Equal(t, [][]byte{depA, depB}, out.CustomData.FactoryDeps)
	require.NotNil(t, out.CustomData.PaymasterParams)
	assert.Equal(t, testTo, out.CustomData.PaymasterParams.Paymaster)
	assert.Equal(t, []byte{0x8c, 0x5a, 0x34, 0x45}, out.CustomData.PaymasterParams.PaymasterInput)
	assert.Equal(t, signed.SigningHash(), decoded.SigningHash())

	sender, err := decoded.Sender()
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestDecodeInvalid(t *testing.T) {
	key := testKey(t)
	signed := signRequest(t, key, newTransferRequest(crypto.PubkeyToAddress(key.PublicKey)))
	raw, err := signed.Serialize()
	require.NoError(t, err)

	inputs := map[string][]byte{
		"empty":          nil,
		"wrong type":     append([]byte{0x02}, raw[1:]...),
		"trailing bytes": append(append([]byte{}, raw...), 0x00),
		"truncated":      raw[:len(raw)-10],
		"not rlp":        {eip712.TxType, 0xff},
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := eip712.Decode(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, eip712.ErrInvalidRawTransaction))
			assert.True(t, errors.Is(err, eip712.ErrInvalidInput))
		})
	}
}
