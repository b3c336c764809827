package wallet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util"
	"github/chapool/go-zkwallet/internal/wallet/signer"
)

const defaultReceiptTimeout = 2 * time.Minute

// Wallet signs and submits transactions for the account of its signer.
// Pipelines of the same sender are serialized from nonce lookup to
// submission; different senders run concurrently.
type Wallet struct {
	signer signer.Service
	era    Provider
	eth    BalanceReader

	chainID        uint64
	receiptTimeout time.Duration

	senders sync.Map // common.Address -> *sync.Mutex
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithChainID overrides the era chain id used in signed transactions.
func WithChainID(chainID uint64) Option {
	return func(w *Wallet) {
		if chainID != 0 {
			w.chainID = chainID
		}
	}
}

// WithReceiptTimeout bounds how long Send* and Deploy* wait for a receipt.
func WithReceiptTimeout(timeout time.Duration) Option {
	return func(w *Wallet) {
		if timeout > 0 {
			w.receiptTimeout = timeout
		}
	}
}

// New creates a wallet. era is required; eth may be nil when L1 balances
// are not needed.
func New(signerService signer.Service, era Provider, eth BalanceReader, opts ...Option) (*Wallet, error) {
	if signerService == nil {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "signer is required")
	}
	if era == nil {
		return nil, errors.Wrap(eip712.ErrProviderNotConnected, "era")
	}

	w := &Wallet{
		signer:         signerService,
		era:            era,
		eth:            eth,
		chainID:        eip712.EraChainID,
		receiptTimeout: defaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Address returns the account of the wallet.
func (w *Wallet) Address() common.Address {
	return w.signer.Address()
}

func (w *Wallet) ChainID() uint64 {
	return w.chainID
}

// EthBalance returns the L1 balance of the wallet.
func (w *Wallet) EthBalance(ctx context.Context) (*big.Int, error) {
	if w.eth == nil {
		return nil, errors.Wrap(eip712.ErrProviderNotConnected, "eth")
	}
	return w.balance(ctx, w.eth)
}

// EraBalance returns the L2 balance of the wallet.
func (w *Wallet) EraBalance(ctx context.Context) (*big.Int, error) {
	return w.balance(ctx, w.era)
}

func (w *Wallet) balance(ctx context.Context, reader BalanceReader) (*big.Int, error) {
	balance, err := reader.BalanceAt(ctx, w.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	util.LogFromContext(ctx).Debug().
		Str("address", w.Address().Hex()).
		Str("balance_wei", balance.String()).
		Msg("Wallet: fetched balance")

	return balance, nil
}

// lockSender serializes pipelines of one sender.
func (w *Wallet) lockSender(address common.Address) func() {
	mu, _ := w.senders.LoadOrStore(address, &sync.Mutex{})
	lock := mu.(*sync.Mutex) //nolint:forcetypeassert // only *sync.Mutex is stored
	lock.Lock()
	return lock.Unlock
}
