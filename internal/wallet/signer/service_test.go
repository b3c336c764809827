package signer_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/wallet/signer"
)

const testPrivateKey = "28a574ab2de8a00364d5dd4b07c4f2f574ef7fcc2a86a197f65abaec836d1959"

func newSigner(t *testing.T) signer.Service {
	t.Helper()

	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)

	s, err := signer.NewService(key)
	require.NoError(t, err)

	return s
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := signer.NewService(nil)
	assert.True(t, errors.Is(err, eip712.ErrInvalidInput))
}

func TestSignHash(t *testing.T) {
	s := newSigner(t)
	hash := crypto.Keccak256Hash([]byte("hello"))

	sig, err := s.SignHash(t.Context(), hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), crypto.PubkeyToAddress(*pub))
}

func TestSignHashCanceled(t *testing.T) {
	s := newSigner(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.SignHash(ctx, common.Hash{})
	assert.True(t, errors.Is(err, eip712.ErrSigning))
}

func TestSignEVMTransaction(t *testing.T) {
	s := newSigner(t)
	to := common.HexToAddress("0xa61464658AfeAf65CccaaFD3a512b69A83B77618")
	from := s.Address()

	res, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:              big.NewInt(270),
		To:                   to,
		Value:                big.NewInt(1),
		GasLimit:             21000,
		MaxFeePerGas:         big.NewInt(100),
		MaxPriorityFeePerGas: big.NewInt(10),
		Nonce:                4,
		From:                 &from,
	})
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(res.RawTransaction))

	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, res.TxHash, tx.Hash())
	assert.Equal(t, to, *tx.To())
	assert.Equal(t, uint64(4), tx.Nonce())
	assert.Equal(t, big.NewInt(10), tx.GasTipCap())

	sender, err := types.Sender(types.NewLondonSigner(big.NewInt(270)), &tx)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), sender)
}

func TestSignEVMTransactionErrors(t *testing.T) {
	s := newSigner(t)
	other := common.HexToAddress("0x0000000000000000000000000000000000000001")

	_, err := s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{
		ChainID:      big.NewInt(270),
		GasLimit:     21000,
		MaxFeePerGas: big.NewInt(1),
		From:         &other,
	})
	assert.True(t, errors.Is(err, eip712.ErrSignatureMismatch))

	_, err = s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{GasLimit: 21000, MaxFeePerGas: big.NewInt(1)})
	assert.True(t, errors.Is(err, eip712.ErrMissingField))

	_, err = s.SignEVMTransaction(t.Context(), &signer.SignEVMRequest{ChainID: big.NewInt(270)})
	assert.True(t, errors.Is(err, eip712.ErrMissingField))
}
