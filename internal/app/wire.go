//go:build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github/chapool/go-zkwallet/internal/config"
	"github/chapool/go-zkwallet/internal/wallet/signer"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// walletSet groups the providers required for a signing wallet
var walletSet = wire.NewSet(
	NewPrivateKey,
	signer.NewService,
	NewEraProvider,
	NewEthBalanceReader,
	NewWallet,
)

// InitApp returns a new App instance and a cleanup func closing its
// connections.
func InitApp(
	_ context.Context,
	_ config.Config,
) (*App, func(), error) {
	wire.Build(walletSet, wire.Struct(new(App), "*"))
	return new(App), nil, nil
}
