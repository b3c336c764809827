// Package provider talks JSON-RPC to era and L1 nodes. A Client holds one
// connection per configured URL and fails over to the next URL when the
// current one stops answering.
package provider

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-zkwallet/internal/eip712"
)

const defaultReceiptPollInterval = time.Second

type node struct {
	url string
	rpc *rpc.Client
	eth *ethclient.Client
}

// Client wraps one JSON-RPC client per URL.
type Client struct {
	nodes   []*node
	mu      sync.RWMutex
	current int

	receiptPollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithReceiptPollInterval sets how often WaitForReceipt polls the node.
func WithReceiptPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.receiptPollInterval = interval
		}
	}
}

// Dial connects to every URL. URLs that cannot be dialed are retried on use;
// Dial only fails if none of them can be reached.
func Dial(ctx context.Context, urls []string, opts ...Option) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "at least one RPC URL is required")
	}

	client := &Client{
		nodes:               make([]*node, 0, len(urls)),
		receiptPollInterval: defaultReceiptPollInterval,
	}
	for _, opt := range opts {
		opt(client)
	}

	connected := 0
	for _, url := range urls {
		n := &node{url: url}
		if err := n.dial(ctx); err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
		} else {
			connected++
		}
		client.nodes = append(client.nodes, n)
	}

	if connected == 0 {
		return nil, errors.Wrap(eip712.ErrProvider, "failed to connect to any RPC node")
	}

	return client, nil
}

func (n *node) dial(ctx context.Context) error {
	rpcClient, err := rpc.DialContext(ctx, n.url)
	if err != nil {
		return err
	}
	n.rpc = rpcClient
	n.eth = ethclient.NewClient(rpcClient)
	return nil
}

// Close closes all connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.nodes {
		if n.rpc != nil {
			n.rpc.Close()
		}
	}
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	n, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	chainID, err := n.eth.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrProvider, "get chain id: %v", err)
	}

	return chainID, nil
}

// VerifyChainID fails with eip712.ErrChainIDMismatch unless the node serves
// the expected chain.
func (c *Client) VerifyChainID(ctx context.Context, expected uint64) error {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return err
	}

	if !chainID.IsUint64() || chainID.Uint64() != expected {
		return errors.Wrapf(eip712.ErrChainIDMismatch, "node reports %s, expected %d", chainID, expected)
	}

	return nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	n, err := c.node(ctx)
	if err != nil {
		return 0, err
	}

	nonce, err := n.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrapf(eip712.ErrProvider, "get pending nonce: %v", err)
	}

	return nonce, nil
}

// SuggestGasPrice returns the node's current gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	n, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	price, err := n.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrProvider, "suggest gas price: %v", err)
	}

	return price, nil
}

// BalanceAt returns the balance of an address at the latest known block.
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	n, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := n.eth.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrProvider, "get balance: %v", err)
	}

	return balance, nil
}

// SendRawTransaction submits serialized transaction bytes of any type and
// returns the hash reported by the node.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	n, err := c.node(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	if err := n.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, errors.Wrapf(eip712.ErrProvider, "send raw transaction: %v", err)
	}

	return hash, nil
}

// TransactionReceipt returns the receipt of a mined transaction. It returns
// ethereum.NotFound while the transaction is pending.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	n, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	return n.eth.TransactionReceipt(ctx, hash)
}

// node returns the current healthy node, trying the others in order if the
// current one fails its health check.
func (c *Client) node(ctx context.Context) (*node, error) {
	c.mu.RLock()
	start := c.current
	total := len(c.nodes)
	c.mu.RUnlock()

	for i := 0; i < total; i++ {
		idx := (start + i) % total

		n, err := c.healthy(ctx, idx)
		if err != nil {
			log.Warn().
				Str("url", c.nodes[idx].url).
				Err(err).
				Msg("RPC node health check failed, trying next")
			continue
		}

		if idx != start {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
		}
		return n, nil
	}

	return nil, errors.Wrap(eip712.ErrProvider, "all RPC nodes are unavailable")
}

func (c *Client) healthy(ctx context.Context, idx int) (*node, error) {
	c.mu.Lock()
	n := c.nodes[idx]
	if n.rpc == nil {
		if err := n.dial(ctx); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	c.mu.Unlock()

	// Simple health check: fetch the chain id
	if _, err := n.eth.ChainID(ctx); err != nil {
		return nil, err
	}

	return n, nil
}
