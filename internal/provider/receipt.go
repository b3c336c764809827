package provider

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-zkwallet/internal/eip712"
)

// WaitForReceipt polls until the transaction is mined or ctx is done.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			log.Debug().Str("tx_hash", hash.Hex()).Msg("Transaction not mined yet")
		case ctx.Err() != nil:
			// reported below
		default:
			return nil, errors.Wrapf(eip712.ErrProvider, "get transaction receipt: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(eip712.ErrNoReceipt, "%s: %v", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
