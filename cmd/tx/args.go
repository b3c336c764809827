package tx

import (
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ParseConstructorArgs converts command line strings into the Go values
// abi.Pack expects for the constructor inputs of contract. Only elementary
// types are supported.
func ParseConstructorArgs(contract *abi.ABI, raw []string) ([]interface{}, error) {
	if contract == nil || contract.Constructor.String() == "" {
		if len(raw) > 0 {
			return nil, errors.Wrapf(eip712.ErrUnexpectedConstructorArguments, "%d arguments", len(raw))
		}
		return nil, nil
	}

	inputs := contract.Constructor.Inputs
	if len(raw) != len(inputs) {
		return nil, errors.Wrapf(eip712.ErrConstructorArguments,
			"constructor takes %d arguments, got %d", len(inputs), len(raw))
	}

	args := make([]interface{}, 0, len(raw))
	for i, input := range inputs {
		arg, err := parseArg(input.Type, raw[i])
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d (%s)", i, input.Name)
		}
		args = append(args, arg)
	}

	return args, nil
}

func parseArg(t abi.Type, s string) (interface{}, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return parseInteger(t, s)

	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "invalid bool %q", s)
		}
		return b, nil

	case abi.StringTy:
		return s, nil

	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.BytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "invalid bytes %q: %v", s, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil || len(b) != t.Size {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "expected %d bytes of hex, got %q", t.Size, s)
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil

	default:
		return nil, errors.Wrapf(eip712.ErrConstructorArguments, "unsupported type %s", t.String())
	}
}

func parseInteger(t abi.Type, s string) (interface{}, error) {
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, errors.Wrapf(eip712.ErrConstructorArguments, "invalid integer %q", s)
	}

	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, errors.Wrapf(eip712.ErrConstructorArguments, "negative value %s for %s", s, t.String())
	}

	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}

	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "%s overflows %s", s, t.String())
		}
		v.SetUint(n.Uint64())
	} else {
		if !n.IsInt64() || v.OverflowInt(n.Int64()) {
			return nil, errors.Wrapf(eip712.ErrConstructorArguments, "%s overflows %s", s, t.String())
		}
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}
