package app

import (
	"context"
	"crypto/ecdsa"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-zkwallet/internal/config"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/provider"
	"github/chapool/go-zkwallet/internal/wallet"
	"github/chapool/go-zkwallet/internal/wallet/keys"
	"github/chapool/go-zkwallet/internal/wallet/signer"
)

// ErrNoKeySource is returned when the config names no private key, keystore
// or mnemonic.
var ErrNoKeySource = errors.Wrap(eip712.ErrInvalidInput, "no key source configured")

// NewPrivateKey loads the signing key from the first configured source.
func NewPrivateKey(cfg config.Config) (*ecdsa.PrivateKey, error) {
	walletCfg := cfg.Wallet

	switch {
	case walletCfg.PrivateKey != "":
		return keys.FromHex(walletCfg.PrivateKey)

	case walletCfg.KeystorePath != "":
		keyJSON, err := os.ReadFile(walletCfg.KeystorePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read keystore %s", walletCfg.KeystorePath)
		}
		return keys.FromKeystore(keyJSON, walletCfg.KeystorePassword)

	case walletCfg.MnemonicKeystorePath != "":
		data, err := os.ReadFile(walletCfg.MnemonicKeystorePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read mnemonic keystore %s", walletCfg.MnemonicKeystorePath)
		}
		mnemonic, err := keys.OpenMnemonic(data, walletCfg.KeystorePassword)
		if err != nil {
			return nil, err
		}
		return keys.FromMnemonic(mnemonic, walletCfg.MnemonicPassphrase, walletCfg.DerivationPath)

	case walletCfg.Mnemonic != "":
		return keys.FromMnemonic(walletCfg.Mnemonic, walletCfg.MnemonicPassphrase, walletCfg.DerivationPath)

	default:
		return nil, ErrNoKeySource
	}
}

// NewEraProvider connects to the era nodes and checks they serve the
// configured chain.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewEraProvider(ctx context.Context, cfg config.Config) (wallet.Provider, func(), error) {
	client, err := provider.Dial(ctx, cfg.Era.RPCURLs, provider.WithReceiptPollInterval(cfg.Wallet.ReceiptPollInterval))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to era")
	}
	if err := client.VerifyChainID(ctx, cfg.Era.ChainID); err != nil {
		client.Close()
		return nil, nil, errors.Wrap(err, "era")
	}
	return client, client.Close, nil
}

// NewEthBalanceReader connects to the L1 nodes. Without configured URLs the
// wallet runs without L1 access. A zero chain id skips the chain check.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewEthBalanceReader(ctx context.Context, cfg config.Config) (wallet.BalanceReader, func(), error) {
	if len(cfg.Eth.RPCURLs) == 0 {
		log.Debug().Msg("No L1 RPC URLs configured")
		return nil, func() {}, nil
	}

	client, err := provider.Dial(ctx, cfg.Eth.RPCURLs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to eth")
	}
	if cfg.Eth.ChainID != 0 {
		if err := client.VerifyChainID(ctx, cfg.Eth.ChainID); err != nil {
			client.Close()
			return nil, nil, errors.Wrap(err, "eth")
		}
	}
	return client, client.Close, nil
}

// NewWallet applies the wallet config.
func NewWallet(signerService signer.Service, era wallet.Provider, eth wallet.BalanceReader, cfg config.Config) (*wallet.Wallet, error) {
	return wallet.New(signerService, era, eth,
		wallet.WithChainID(cfg.Era.ChainID),
		wallet.WithReceiptTimeout(cfg.Wallet.ReceiptTimeout),
	)
}
