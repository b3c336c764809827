package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Service signs on behalf of a single account.
type Service interface {
	// Address returns the account the service signs for.
	Address() common.Address

	// SignHash signs a 32 byte digest and returns [R || S || V] with V in {0, 1}.
	SignHash(ctx context.Context, hash common.Hash) ([]byte, error)

	// SignEVMTransaction signs a standard EIP-1559 transaction.
	SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error)
}

// SignEVMRequest represents a request to sign an EIP-1559 transaction
type SignEVMRequest struct {
	ChainID              *big.Int        // Chain ID (270 for a local era node)
	To                   common.Address  // Recipient address
	Value                *big.Int        // Amount in wei
	GasLimit             uint64          // Gas limit
	MaxFeePerGas         *big.Int        // Max fee per gas in wei
	MaxPriorityFeePerGas *big.Int        // Max priority fee per gas in wei
	Nonce                uint64          // Transaction nonce
	Data                 []byte          // Transaction data (for contract calls)
	From                 *common.Address // Optional; checked against the signing key when set
}

// SignEVMResponse represents a signed EIP-1559 transaction
type SignEVMResponse struct {
	RawTransaction []byte      // Type-prefixed RLP encoding
	TxHash         common.Hash // Transaction hash
}
