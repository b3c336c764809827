package provider

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
)

// byteList marshals as a JSON array of numbers, the form the era node
// expects for factory deps and paymaster input.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	ints := make([]uint16, len(b))
	for i, v := range b {
		ints[i] = uint16(v)
	}
	return json.Marshal(ints)
}

type paymasterParamsArg struct {
	Paymaster      common.Address `json:"paymaster"`
	PaymasterInput byteList       `json:"paymasterInput"`
}

type eip712MetaArg struct {
	GasPerPubdata   *hexutil.Big        `json:"gasPerPubdata"`
	FactoryDeps     []byteList          `json:"factoryDeps,omitempty"`
	CustomSignature *hexutil.Bytes      `json:"customSignature,omitempty"`
	PaymasterParams *paymasterParamsArg `json:"paymasterParams,omitempty"`
}

type callRequestArg struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Data                 hexutil.Bytes   `json:"data"`
	Value                *hexutil.Big    `json:"value"`
	Gas                  *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	TransactionType      hexutil.Uint64  `json:"transactionType"`
	EIP712Meta           *eip712MetaArg  `json:"eip712Meta"`
}

type feeResult struct {
	GasLimit             *hexutil.Big `json:"gas_limit"`
	GasPerPubdataLimit   *hexutil.Big `json:"gas_per_pubdata_limit"`
	MaxFeePerGas         *hexutil.Big `json:"max_fee_per_gas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"max_priority_fee_per_gas"`
}

func newCallRequestArg(req *eip712.TransactionRequest) *callRequestArg {
	meta := req.CustomData
	if meta == nil {
		meta = eip712.NewCustomData()
	}

	arg := &callRequestArg{
		From:            req.From,
		To:              req.To,
		Data:            req.Data,
		Value:           bigOrZero(req.Value),
		TransactionType: hexutil.Uint64(eip712.TxType),
		EIP712Meta: &eip712MetaArg{
			GasPerPubdata: (*hexutil.Big)(new(big.Int).SetUint64(meta.GasPerPubdata)),
		},
	}
	if arg.Data == nil {
		arg.Data = hexutil.Bytes{}
	}
	if req.GasLimit != 0 {
		gas := hexutil.Uint64(req.GasLimit)
		arg.Gas = &gas
	}
	if req.GasPrice != nil {
		arg.GasPrice = (*hexutil.Big)(req.GasPrice.ToBig())
	}
	if req.MaxFeePerGas != nil {
		arg.MaxFeePerGas = (*hexutil.Big)(req.MaxFeePerGas.ToBig())
	}
	if req.MaxPriorityFeePerGas != nil {
		arg.MaxPriorityFeePerGas = (*hexutil.Big)(req.MaxPriorityFeePerGas.ToBig())
	}

	for _, dep := range meta.FactoryDeps {
		arg.EIP712Meta.FactoryDeps = append(arg.EIP712Meta.FactoryDeps, byteList(dep))
	}
	if len(meta.CustomSignature) > 0 {
		sig := hexutil.Bytes(meta.CustomSignature)
		arg.EIP712Meta.CustomSignature = &sig
	}
	if pm := meta.PaymasterParams; pm != nil {
		arg.EIP712Meta.PaymasterParams = &paymasterParamsArg{
			Paymaster:      pm.Paymaster,
			PaymasterInput: pm.PaymasterInput,
		}
	}

	return arg
}

// EstimateFee asks the era node for gas limit and fees of req. The request
// does not need resolved fees; drafts are fine.
func (c *Client) EstimateFee(ctx context.Context, req *eip712.TransactionRequest) (*eip712.Fee, error) {
	n, err := c.node(ctx)
	if err != nil {
		return nil, errors.Wrap(eip712.ErrEstimationUnavailable, err.Error())
	}

	var result feeResult
	if err := n.rpc.CallContext(ctx, &result, "zks_estimateFee", newCallRequestArg(req)); err != nil {
		return nil, errors.Wrapf(eip712.ErrEstimationUnavailable, "zks_estimateFee: %v", err)
	}

	if result.GasLimit == nil || result.MaxFeePerGas == nil {
		return nil, errors.Wrap(eip712.ErrEstimationUnavailable, "incomplete fee estimate")
	}

	fee := &eip712.Fee{
		GasLimit:             result.GasLimit.ToInt().Uint64(),
		MaxFeePerGas:         u256OrZero(result.MaxFeePerGas),
		MaxPriorityFeePerGas: u256OrZero(result.MaxPriorityFeePerGas),
	}
	if result.GasPerPubdataLimit != nil {
		fee.GasPerPubdataLimit = result.GasPerPubdataLimit.ToInt().Uint64()
	}

	return fee, nil
}

func bigOrZero(v *uint256.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(new(big.Int))
	}
	return (*hexutil.Big)(v.ToBig())
}

func u256OrZero(v *hexutil.Big) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	out, overflow := uint256.FromBig(v.ToInt())
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return out
}
