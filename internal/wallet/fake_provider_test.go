package wallet_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
)

// fakeProvider is an in-memory era node. The pending nonce is the number of
// accepted transactions.
type fakeProvider struct {
	mu sync.Mutex

	gasPrice        *big.Int
	fee             *eip712.Fee
	balance         *big.Int
	contractAddress common.Address

	estimateErr error
	sendErr     error
	receiptErr  error

	estimates []*eip712.TransactionRequest
	sent      [][]byte
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		gasPrice: big.NewInt(250000000),
		fee: &eip712.Fee{
			GasLimit:             300000,
			MaxFeePerGas:         uint256.NewInt(250000000),
			MaxPriorityFeePerGas: uint256.NewInt(0),
			GasPerPubdataLimit:   800,
		},
		balance: big.NewInt(1000000000000000000),
	}
}

func (p *fakeProvider) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint64(len(p.sent)), nil
}

func (p *fakeProvider) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(p.gasPrice), nil
}

func (p *fakeProvider) BalanceAt(_ context.Context, _ common.Address) (*big.Int, error) {
	return new(big.Int).Set(p.balance), nil
}

func (p *fakeProvider) EstimateFee(_ context.Context, req *eip712.TransactionRequest) (*eip712.Fee, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.estimates = append(p.estimates, req.Clone())
	if p.estimateErr != nil {
		return nil, p.estimateErr
	}

	return &eip712.Fee{
		GasLimit:             p.fee.GasLimit,
		MaxFeePerGas:         p.fee.MaxFeePerGas.Clone(),
		MaxPriorityFeePerGas: p.fee.MaxPriorityFeePerGas.Clone(),
		GasPerPubdataLimit:   p.fee.GasPerPubdataLimit,
	}, nil
}

func (p *fakeProvider) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	if p.sendErr != nil {
		return common.Hash{}, p.sendErr
	}

	var hash common.Hash
	if len(raw) > 0 && raw[0] == eip712.TxType {
		signed, err := eip712.Decode(raw)
		if err != nil {
			return common.Hash{}, err
		}
		hash = signed.Hash()
	} else {
		var tx types.Transaction
		if err := tx.UnmarshalBinary(raw); err != nil {
			return common.Hash{}, errors.Wrap(eip712.ErrProvider, err.Error())
		}
		hash = tx.Hash()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, append([]byte{}, raw...))

	return hash, nil
}

func (p *fakeProvider) WaitForReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if p.receiptErr != nil {
		return nil, p.receiptErr
	}

	return &types.Receipt{
		TxHash:          hash,
		Status:          types.ReceiptStatusSuccessful,
		ContractAddress: p.contractAddress,
	}, nil
}

func (p *fakeProvider) sentTransactions() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte{}, p.sent...)
}

func (p *fakeProvider) estimateRequests() []*eip712.TransactionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*eip712.TransactionRequest{}, p.estimates...)
}
