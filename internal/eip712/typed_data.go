package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const transactionPrimaryType = "Transaction"

var transactionTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	transactionPrimaryType: {
		{Name: "txType", Type: "uint256"},
		{Name: "from", Type: "uint256"},
		{Name: "to", Type: "uint256"},
		{Name: "gasLimit", Type: "uint256"},
		{Name: "gasPerPubdataByteLimit", Type: "uint256"},
		{Name: "maxFeePerGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint256"},
		{Name: "paymaster", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "factoryDeps", Type: "bytes32[]"},
		{Name: "paymasterInput", Type: "bytes"},
	},
}

// Transaction is the typed-data form of a request: exactly the values that
// get signed, independent of the wire encoding.
type Transaction struct {
	TxType                 byte
	From                   common.Address
	To                     common.Address
	GasLimit               uint64
	GasPerPubdataByteLimit uint64
	MaxFeePerGas           *uint256.Int
	MaxPriorityFeePerGas   *uint256.Int
	// Paymaster is the zero address when nobody sponsors the fees.
	Paymaster      common.Address
	Nonce          uint64
	Value          *uint256.Int
	Data           []byte
	FactoryDeps    []common.Hash
	PaymasterInput []byte

	ChainID uint64
}

// Domain returns the EIP-712 domain the transaction is signed under.
func (tx *Transaction) Domain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:    DomainName,
		Version: DomainVersion,
		ChainId: (*math.HexOrDecimal256)(new(big.Int).SetUint64(tx.ChainID)),
	}
}

// TypedData returns the full EIP-712 payload.
func (tx *Transaction) TypedData() apitypes.TypedData {
	deps := make([]interface{}, 0, len(tx.FactoryDeps))
	for _, dep := range tx.FactoryDeps {
		deps = append(deps, dep.Hex())
	}

	return apitypes.TypedData{
		Types:       transactionTypes,
		PrimaryType: transactionPrimaryType,
		Domain:      tx.Domain(),
		Message: apitypes.TypedDataMessage{
			"txType":                 uint64Word(uint64(tx.TxType)),
			"from":                   addressWord(tx.From),
			"to":                     addressWord(tx.To),
			"gasLimit":               uint64Word(tx.GasLimit),
			"gasPerPubdataByteLimit": uint64Word(tx.GasPerPubdataByteLimit),
			"maxFeePerGas":           u256Word(tx.MaxFeePerGas),
			"maxPriorityFeePerGas":   u256Word(tx.MaxPriorityFeePerGas),
			"paymaster":              addressWord(tx.Paymaster),
			"nonce":                  uint64Word(tx.Nonce),
			"value":                  u256Word(tx.Value),
			"data":                   nonNilBytes(tx.Data),
			"factoryDeps":            deps,
			"paymasterInput":         nonNilBytes(tx.PaymasterInput),
		},
	}
}

// Hash returns keccak256("\x19\x01" || domainSeparator || hashStruct(tx)),
// the only value ever handed to a signer.
func (tx *Transaction) Hash() (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(tx.TypedData())
	if err != nil {
		return common.Hash{}, errors.Wrapf(ErrEncoding, "typed data hash: %v", err)
	}
	return common.BytesToHash(digest), nil
}

func uint64Word(v uint64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).SetUint64(v))
}

func u256Word(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

func addressWord(addr common.Address) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).SetBytes(addr.Bytes()))
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
