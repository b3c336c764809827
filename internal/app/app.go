package app

import (
	"github/chapool/go-zkwallet/internal/config"
	"github/chapool/go-zkwallet/internal/wallet"
)

// App is a central struct keeping all the dependencies of a CLI run.
// It is initialized with wire, which handles making the new instances of the
// components in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type App struct {
	Config config.Config
	Era    wallet.Provider
	Wallet *wallet.Wallet
}
