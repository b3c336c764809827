package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/go-zkwallet/internal/eip712"
)

// NonceSource provides the account state needed before signing.
type NonceSource interface {
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// FeeEstimator resolves gas limit and fee-market fields of a request.
type FeeEstimator interface {
	EstimateFee(ctx context.Context, req *eip712.TransactionRequest) (*eip712.Fee, error)
}

// Transport submits signed bytes and waits for their receipt.
type Transport interface {
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// BalanceReader reads native balances.
type BalanceReader interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
}

// Provider is everything the wallet needs from the era node.
type Provider interface {
	NonceSource
	FeeEstimator
	Transport
	BalanceReader
}

// DeployRequest describes a contract deployment.
type DeployRequest struct {
	// ABI is optional; without it the contract is deployed without constructor.
	ABI             *abi.ABI
	Bytecode        []byte
	Dependencies    [][]byte
	ConstructorArgs []interface{}
	Salt            common.Hash
}

// Deployment is the result of a mined deployment.
type Deployment struct {
	ContractAddress common.Address
	Receipt         *types.Receipt
}
