package tx

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/util/command"
)

func newTransfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Sends native tokens with an EIP-1559 transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, amount, err := transferArgs(cmd)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				receipt, err := a.Wallet.Transfer(ctx, to, amount)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), newReceiptView(receipt))
			})
		},
	}
	addTransferFlags(cmd)

	return cmd
}

func newTransferEIP712() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-eip712",
		Short: "Sends native tokens with an EIP-712 transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, amount, err := transferArgs(cmd)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				receipt, err := a.Wallet.TransferEIP712(ctx, to, amount)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), newReceiptView(receipt))
			})
		},
	}
	addTransferFlags(cmd)

	return cmd
}
