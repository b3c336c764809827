package tx

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util/command"
)

const (
	toFlag     string = "to"
	amountFlag string = "amount"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("tx",
		newDecode(),
		newTransfer(),
		newTransferEIP712(),
		newSign(),
		newSend(),
		newDeploy(),
	)
}

// ParseAddress parses a 0x-prefixed hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Wrapf(eip712.ErrInvalidInput, "invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a non-negative wei amount in decimal or 0x hex.
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := math.ParseBig256(s)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "invalid amount %q", s)
	}
	return amount, nil
}

func transferArgs(cmd *cobra.Command) (common.Address, *big.Int, error) {
	toRaw, err := cmd.Flags().GetString(toFlag)
	if err != nil {
		return common.Address{}, nil, err
	}
	to, err := ParseAddress(toRaw)
	if err != nil {
		return common.Address{}, nil, err
	}

	amountRaw, err := cmd.Flags().GetString(amountFlag)
	if err != nil {
		return common.Address{}, nil, err
	}
	amount, err := ParseAmount(amountRaw)
	if err != nil {
		return common.Address{}, nil, err
	}

	return to, amount, nil
}

func addTransferFlags(cmd *cobra.Command) {
	cmd.Flags().String(toFlag, "", "Recipient address")
	cmd.Flags().String(amountFlag, "0", "Amount in wei, decimal or 0x hex")
	_ = cmd.MarkFlagRequired(toFlag)
}

type receiptView struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	Status          uint64          `json:"status"`
	BlockNumber     *big.Int        `json:"blockNumber"`
	GasUsed         uint64          `json:"gasUsed"`
	ContractAddress *common.Address `json:"contractAddress,omitempty"`
}

func newReceiptView(receipt *types.Receipt) *receiptView {
	view := &receiptView{
		TransactionHash: receipt.TxHash,
		Status:          receipt.Status,
		BlockNumber:     receipt.BlockNumber,
		GasUsed:         receipt.GasUsed,
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr := receipt.ContractAddress
		view.ContractAddress = &addr
	}
	return view
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
