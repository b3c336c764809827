package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/cmd/bytecode"
	"github/chapool/go-zkwallet/cmd/key"
	"github/chapool/go-zkwallet/cmd/tx"
	"github/chapool/go-zkwallet/cmd/wallet"
	"github/chapool/go-zkwallet/internal/config"
	"github/chapool/go-zkwallet/internal/util/command"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "zkwallet",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Signs, encodes and submits zkSync Era EIP-712 transactions.
Configured through a config file, a .env file or ZKS_* environment variables.`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().String(command.FlagConfig, "", "Path to a config file (yaml, json, toml)")
	rootCmd.PersistentFlags().String(command.FlagEnvFile, ".env", "Path to a .env file, ignored if missing")
	rootCmd.PersistentFlags().String(command.FlagMetricsPushURL, "", "Pushgateway URL the metrics are pushed to after each command")

	// attach the subcommands
	rootCmd.AddCommand(
		bytecode.New(),
		key.New(),
		tx.New(),
		wallet.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
