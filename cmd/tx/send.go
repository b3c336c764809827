package tx

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util/command"
)

const (
	dataFlag           string = "data"
	gasLimitFlag       string = "gas-limit"
	maxFeeFlag         string = "max-fee"
	maxPriorityFeeFlag string = "max-priority-fee"
	gasPerPubdataFlag  string = "gas-per-pubdata"
	paymasterFlag      string = "paymaster"
	paymasterInputFlag string = "paymaster-input"
)

func addRequestFlags(cmd *cobra.Command) {
	addTransferFlags(cmd)
	cmd.Flags().String(dataFlag, "", "Call data as 0x hex")
	cmd.Flags().Uint64(gasLimitFlag, 0, "Gas limit, estimated when 0")
	cmd.Flags().String(maxFeeFlag, "", "Max fee per gas in wei, estimated when empty")
	cmd.Flags().String(maxPriorityFeeFlag, "", "Max priority fee per gas in wei, zero when empty")
	cmd.Flags().Uint64(gasPerPubdataFlag, eip712.DefaultGasPerPubdataLimit, "Gas per pubdata byte limit")
	cmd.Flags().String(paymasterFlag, "", "Paymaster address")
	cmd.Flags().String(paymasterInputFlag, "", "Paymaster input as 0x hex")
}

// requestFromFlags builds an unsigned request; nonce and chain id are set by
// the wallet.
func requestFromFlags(cmd *cobra.Command) (*eip712.TransactionRequest, error) {
	flags := cmd.Flags()

	to, amount, err := transferArgs(cmd)
	if err != nil {
		return nil, err
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "amount overflows 256 bits")
	}

	req := eip712.NewTransactionRequest().WithTo(to).WithValue(value)

	if data, _ := flags.GetString(dataFlag); data != "" {
		decoded, err := hexutil.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrInvalidInput, "invalid --%s: %v", dataFlag, err)
		}
		req.WithData(decoded)
	}

	gasLimit, _ := flags.GetUint64(gasLimitFlag)
	req.WithGasLimit(gasLimit)

	for flag, set := range map[string]func(*uint256.Int) *eip712.TransactionRequest{
		maxFeeFlag:         req.WithMaxFeePerGas,
		maxPriorityFeeFlag: req.WithMaxPriorityFeePerGas,
	} {
		raw, _ := flags.GetString(flag)
		if raw == "" {
			continue
		}
		fee, err := ParseAmount(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "--%s", flag)
		}
		set(uint256.MustFromBig(fee))
	}

	meta := eip712.NewCustomData()
	gasPerPubdata, _ := flags.GetUint64(gasPerPubdataFlag)
	meta.WithGasPerPubdata(gasPerPubdata)

	paymasterRaw, _ := flags.GetString(paymasterFlag)
	paymasterInputRaw, _ := flags.GetString(paymasterInputFlag)
	if paymasterRaw != "" || paymasterInputRaw != "" {
		paymaster, err := ParseAddress(paymasterRaw)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrInvalidPaymasterParams, "--%s: %v", paymasterFlag, err)
		}
		input, err := hexutil.Decode(paymasterInputRaw)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrInvalidPaymasterParams, "--%s: %v", paymasterInputFlag, err)
		}
		meta.WithPaymasterParams(paymaster, input)
	}

	return req.WithCustomData(meta), nil
}

func newSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Signs an EIP-712 transaction and prints it without submitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				signed, err := a.Wallet.SignEIP712(ctx, req.WithChainID(a.Wallet.ChainID()))
				if err != nil {
					return err
				}

				raw, err := signed.Serialize()
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), struct {
					Raw         hexutil.Bytes `json:"raw"`
					Transaction *View         `json:"transaction"`
				}{
					Raw:         raw,
					Transaction: NewView(signed),
				})
			})
		},
	}
	addRequestFlags(cmd)

	return cmd
}

func newSend() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Signs and submits an EIP-712 transaction and waits for its receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				receipt, err := a.Wallet.SendEIP712(ctx, req.WithChainID(a.Wallet.ChainID()))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), newReceiptView(receipt))
			})
		},
	}
	addRequestFlags(cmd)

	return cmd
}
