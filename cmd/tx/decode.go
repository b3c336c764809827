package tx

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/eip712"
)

// View is the JSON form of a decoded extended transaction.
type View struct {
	Hash                 common.Hash     `json:"hash"`
	SigningHash          common.Hash     `json:"signingHash"`
	Sender               *common.Address `json:"sender,omitempty"`
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Value                *hexutil.Big    `json:"value"`
	Data                 hexutil.Bytes   `json:"data"`
	GasLimit             hexutil.Uint64  `json:"gas"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	ChainID              hexutil.Uint64  `json:"chainId"`
	GasPerPubdata        hexutil.Uint64  `json:"gasPerPubdata"`
	FactoryDeps          []hexutil.Bytes `json:"factoryDeps"`
	CustomSignature      hexutil.Bytes   `json:"customSignature"`
	Paymaster            *common.Address `json:"paymaster,omitempty"`
	PaymasterInput       hexutil.Bytes   `json:"paymasterInput,omitempty"`
}

// NewView describes signed. Sender is only set for ECDSA signatures.
func NewView(signed *eip712.SignedTransaction) *View {
	req := signed.Request()
	meta := req.CustomData
	if meta == nil {
		meta = eip712.NewCustomData()
	}
	maxFee, maxPriorityFee := req.EffectiveFees()

	view := &View{
		Hash:                 signed.Hash(),
		SigningHash:          signed.SigningHash(),
		From:                 req.From,
		To:                   req.To,
		Nonce:                hexutil.Uint64(req.Nonce),
		Value:                (*hexutil.Big)(req.Value.ToBig()),
		Data:                 req.Data,
		GasLimit:             hexutil.Uint64(req.GasLimit),
		MaxFeePerGas:         (*hexutil.Big)(maxFee.ToBig()),
		MaxPriorityFeePerGas: (*hexutil.Big)(maxPriorityFee.ToBig()),
		ChainID:              hexutil.Uint64(req.ChainID),
		GasPerPubdata:        hexutil.Uint64(meta.GasPerPubdata),
		FactoryDeps:          make([]hexutil.Bytes, 0, len(meta.FactoryDeps)),
		CustomSignature:      meta.CustomSignature,
	}
	for _, dep := range meta.FactoryDeps {
		view.FactoryDeps = append(view.FactoryDeps, dep)
	}
	if pm := meta.PaymasterParams; pm != nil {
		view.Paymaster = &pm.Paymaster
		view.PaymasterInput = pm.PaymasterInput
	}
	if sender, err := signed.Sender(); err == nil {
		view.Sender = &sender
	}

	return view
}

func newDecode() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <raw>",
		Short: "Decodes a serialized EIP-712 transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hexutil.Decode(strings.TrimSpace(args[0]))
			if err != nil {
				return errors.Wrapf(eip712.ErrInvalidInput, "invalid hex: %v", err)
			}

			signed, err := eip712.Decode(raw)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), NewView(signed))
		},
	}
}
