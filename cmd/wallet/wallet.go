package wallet

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/util/command"
)

const (
	l1Flag string = "l1"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("wallet",
		newAddress(),
		newBalance(),
	)
}

func newAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the address of the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.RunWithApp(cmd, func(_ context.Context, a *app.App) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.Wallet.Address().Hex())
				return err
			})
		},
	}
}

func newBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Prints the native balance of the wallet in wei",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l1, err := cmd.Flags().GetBool(l1Flag)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				balance, err := a.Wallet.EraBalance(ctx)
				if l1 {
					balance, err = a.Wallet.EthBalance(ctx)
				}
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), balance.String())
				return err
			})
		},
	}

	cmd.Flags().Bool(l1Flag, false, "Read the balance on L1 instead of era")

	return cmd
}
