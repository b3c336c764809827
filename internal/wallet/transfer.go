package wallet

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/metrics"
	"github/chapool/go-zkwallet/internal/util"
	"github/chapool/go-zkwallet/internal/wallet/signer"
)

// Pipeline stages, used as metric labels
const (
	stageNonce    = "nonce"
	stageGasPrice = "gas_price"
	stageEstimate = "estimate"
	stagePrepare  = "prepare"
	stageSign     = "sign"
	stageSubmit   = "submit"
	stageReceipt  = "receipt"
)

// Transfer sends amount to `to` as a standard EIP-1559 transaction on era
// and waits for the receipt.
func (w *Wallet) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	ctx, _ = util.WithRequestID(ctx)
	const op = metrics.OpTransfer

	value, err := toU256(amount)
	if err != nil {
		return nil, err
	}

	hash, err := func() (common.Hash, error) {
		unlock := w.lockSender(w.Address())
		defer unlock()

		// Fetch nonce
		nonce, err := w.era.PendingNonceAt(ctx, w.Address())
		if err != nil {
			return common.Hash{}, w.fail(op, stageNonce, errors.Wrap(err, "failed to fetch pending nonce"))
		}

		// Estimate gas and fees on an estimate-only request
		draft := eip712.NewTransactionRequest().
			WithFrom(w.Address()).
			WithTo(to).
			WithValue(value).
			WithChainID(w.chainID).
			AsDraft()
		fee, err := w.estimateFee(ctx, draft)
		if err != nil {
			return common.Hash{}, w.fail(op, stageEstimate, err)
		}

		from := w.Address()
		signResp, err := w.signer.SignEVMTransaction(ctx, &signer.SignEVMRequest{
			ChainID:              new(big.Int).SetUint64(w.chainID),
			To:                   to,
			Value:                amount,
			GasLimit:             fee.GasLimit,
			MaxFeePerGas:         fee.MaxFeePerGas.ToBig(),
			MaxPriorityFeePerGas: fee.MaxPriorityFeePerGas.ToBig(),
			Nonce:                nonce,
			From:                 &from,
		})
		if err != nil {
			return common.Hash{}, w.fail(op, stageSign, errors.Wrap(err, "failed to sign transfer"))
		}
		metrics.TransactionsSigned.WithLabelValues(op).Inc()

		return w.submit(ctx, op, signResp.RawTransaction, signResp.TxHash)
	}()
	if err != nil {
		return nil, err
	}

	return w.waitForReceipt(ctx, op, hash)
}

// TransferEIP712 sends amount to `to` as an extended transaction and waits
// for the receipt.
func (w *Wallet) TransferEIP712(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	value, err := toU256(amount)
	if err != nil {
		return nil, err
	}

	req := eip712.NewTransactionRequest().
		WithFrom(w.Address()).
		WithTo(to).
		WithValue(value).
		WithChainID(w.chainID)

	return w.sendEIP712(ctx, metrics.OpTransferEIP712, req)
}

// SignEIP712 fills nonce, gas price and fees of a copy of req and signs it.
// Fees already set on req (gas limit and max fee) are kept. Nothing is
// submitted.
func (w *Wallet) SignEIP712(ctx context.Context, req *eip712.TransactionRequest) (*eip712.SignedTransaction, error) {
	ctx, _ = util.WithRequestID(ctx)

	unlock := w.lockSender(w.Address())
	defer unlock()

	return w.signEIP712(ctx, metrics.OpTransferEIP712, req)
}

// SendEIP712 signs req like SignEIP712, submits it and waits for the receipt.
func (w *Wallet) SendEIP712(ctx context.Context, req *eip712.TransactionRequest) (*types.Receipt, error) {
	return w.sendEIP712(ctx, metrics.OpTransferEIP712, req)
}

func (w *Wallet) sendEIP712(ctx context.Context, op string, req *eip712.TransactionRequest) (*types.Receipt, error) {
	ctx, _ = util.WithRequestID(ctx)

	hash, err := func() (common.Hash, error) {
		unlock := w.lockSender(w.Address())
		defer unlock()

		signed, err := w.signEIP712(ctx, op, req)
		if err != nil {
			return common.Hash{}, err
		}

		raw, err := signed.Serialize()
		if err != nil {
			return common.Hash{}, w.fail(op, stageSubmit, errors.Wrap(err, "failed to serialize transaction"))
		}

		return w.submit(ctx, op, raw, signed.Hash())
	}()
	if err != nil {
		return nil, err
	}

	return w.waitForReceipt(ctx, op, hash)
}

// signEIP712 runs nonce -> gas price -> fee estimate -> prepare -> sign.
// Callers hold the sender lock.
func (w *Wallet) signEIP712(ctx context.Context, op string, req *eip712.TransactionRequest) (*eip712.SignedTransaction, error) {
	log := util.LogFromContext(ctx).With().Str("operation", op).Logger()

	req = req.Clone()
	switch req.From {
	case common.Address{}:
		req.WithFrom(w.Address())
	case w.Address():
	default:
		return nil, w.fail(op, stagePrepare, errors.Wrapf(eip712.ErrInvalidInput,
			"request sender %s is not the wallet account %s", req.From.Hex(), w.Address().Hex()))
	}
	if req.ChainID == 0 {
		req.WithChainID(w.chainID)
	}

	// Fetch nonce
	nonce, err := w.era.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, w.fail(op, stageNonce, errors.Wrap(err, "failed to fetch pending nonce"))
	}
	req.WithNonce(nonce)

	// Fetch gas price
	gasPrice, err := w.era.SuggestGasPrice(ctx)
	if err != nil {
		return nil, w.fail(op, stageGasPrice, errors.Wrap(err, "failed to fetch gas price"))
	}
	price, err := toU256(gasPrice)
	if err != nil {
		return nil, w.fail(op, stageGasPrice, err)
	}
	req.WithGasPrice(price)

	// Estimate fees unless the caller resolved them
	if req.GasLimit == 0 || req.MaxFeePerGas == nil || req.MaxFeePerGas.IsZero() {
		fee, err := w.estimateFee(ctx, req.Clone().AsDraft())
		if err != nil {
			return nil, w.fail(op, stageEstimate, err)
		}
		req.ApplyFee(fee)
	}

	signable, err := req.Prepare()
	if err != nil {
		return nil, w.fail(op, stagePrepare, errors.Wrap(err, "failed to prepare transaction"))
	}

	sig, err := w.signer.SignHash(ctx, signable.Hash())
	if err != nil {
		return nil, w.fail(op, stageSign, errors.Wrap(err, "failed to sign transaction"))
	}

	signed, err := signable.AttachSignature(sig)
	if err != nil {
		return nil, w.fail(op, stageSign, errors.Wrap(err, "failed to attach signature"))
	}
	metrics.TransactionsSigned.WithLabelValues(op).Inc()

	log.Debug().
		Str("from", req.From.Hex()).
		Uint64("nonce", nonce).
		Uint64("gas_limit", req.GasLimit).
		Str("signing_hash", signed.SigningHash().Hex()).
		Msg("Wallet: signed extended transaction")

	return signed, nil
}

func (w *Wallet) estimateFee(ctx context.Context, draft *eip712.TransactionRequest) (*eip712.Fee, error) {
	start := time.Now()
	fee, err := w.era.EstimateFee(ctx, draft)
	metrics.FeeEstimateDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrap(err, "failed to estimate fee")
	}
	if fee == nil || fee.MaxFeePerGas == nil {
		return nil, errors.Wrap(eip712.ErrEstimationUnavailable, "empty fee estimate")
	}
	if fee.MaxPriorityFeePerGas == nil {
		fee.MaxPriorityFeePerGas = new(uint256.Int)
	}
	return fee, nil
}

func (w *Wallet) submit(ctx context.Context, op string, raw []byte, expected common.Hash) (common.Hash, error) {
	log := util.LogFromContext(ctx)

	hash, err := w.era.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, w.fail(op, stageSubmit, errors.Wrap(err, "failed to broadcast transaction"))
	}
	metrics.TransactionsSubmitted.WithLabelValues(op).Inc()

	if hash != expected {
		log.Warn().
			Str("tx_hash", hash.Hex()).
			Str("expected_tx_hash", expected.Hex()).
			Msg("Wallet: node reported a different transaction hash")
	}

	log.Info().
		Str("operation", op).
		Str("from", w.Address().Hex()).
		Str("tx_hash", hash.Hex()).
		Msg("Wallet: transaction submitted")

	return hash, nil
}

func (w *Wallet) waitForReceipt(ctx context.Context, op string, hash common.Hash) (*types.Receipt, error) {
	localCtx, cancel := context.WithTimeout(ctx, w.receiptTimeout)
	defer cancel()

	start := time.Now()
	receipt, err := w.era.WaitForReceipt(localCtx, hash)
	metrics.ReceiptWaitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, w.fail(op, stageReceipt, errors.Wrapf(err, "failed while waiting for receipt of %s", hash.Hex()))
	}
	if receipt == nil {
		return nil, w.fail(op, stageReceipt, errors.Wrap(eip712.ErrNoReceipt, hash.Hex()))
	}

	util.LogFromContext(ctx).Info().
		Str("operation", op).
		Str("tx_hash", hash.Hex()).
		Uint64("status", receipt.Status).
		Msg("Wallet: transaction mined")

	return receipt, nil
}

func (w *Wallet) fail(op, stage string, err error) error {
	metrics.PipelineFailures.WithLabelValues(op, stage).Inc()
	return err
}

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "negative amount %s", v)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "amount %s exceeds 256 bits", v)
	}
	return out, nil
}
