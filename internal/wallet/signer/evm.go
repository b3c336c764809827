package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
)

// signEIP1559Transaction signs an EIP-1559 transaction
func (s *service) signEIP1559Transaction(req *SignEVMRequest) (*SignEVMResponse, error) {
	// Verify from address matches private key
	if req.From != nil && *req.From != s.address {
		return nil, errors.Wrapf(eip712.ErrSignatureMismatch, "from %s, key %s", req.From.Hex(), s.address.Hex())
	}

	if req.ChainID == nil || req.ChainID.Sign() <= 0 {
		return nil, errors.Wrap(eip712.ErrMissingField, "chain id")
	}
	if req.MaxFeePerGas == nil || req.GasLimit == 0 {
		return nil, errors.Wrap(eip712.ErrMissingField, "fees")
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	maxPriorityFeePerGas := req.MaxPriorityFeePerGas
	if maxPriorityFeePerGas == nil {
		maxPriorityFeePerGas = req.MaxFeePerGas
	}

	// Create EIP-1559 transaction
	to := req.To
	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   req.ChainID,
		Nonce:     req.Nonce,
		GasTipCap: maxPriorityFeePerGas,
		GasFeeCap: req.MaxFeePerGas,
		Gas:       req.GasLimit,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	})

	// Sign transaction
	signer := types.NewLondonSigner(req.ChainID)
	signedTx, err := types.SignTx(tx, signer, s.privateKey)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrSigning, "sign transaction: %v", err)
	}

	// Encode transaction
	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrEncoding, "marshal transaction: %v", err)
	}

	return &SignEVMResponse{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash(),
	}, nil
}
