// Package providertest serves a minimal JSON-RPC node for tests of code that
// dials a provider.
package providertest

import (
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

type ethService struct {
	chainID uint64
}

// ChainId answers eth_chainId.
//
//nolint:revive // The method name maps to eth_chainId.
func (s *ethService) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(s.chainID)
}

// NewNode starts a node reporting chainID and returns its URL. The node is
// stopped when the test ends.
func NewNode(t *testing.T, chainID uint64) string {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethService{chainID: chainID}))

	httpServer := httptest.NewServer(server)
	t.Cleanup(func() {
		httpServer.Close()
		server.Stop()
	})

	return httpServer.URL
}
