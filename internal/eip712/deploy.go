package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// createSignature is the deployer method every deployment calls.
const createSignature = "create(bytes32,bytes32,bytes)"

// CreateSelector is the 4 byte method id of createSignature.
var CreateSelector = crypto.Keccak256([]byte(createSignature))[:4]

const (
	abiWordSize = 32
	// salt, bytecode hash and the offset of the input bytes
	createHeadWords = 3
)

// DeployParams describes a contract deployment.
type DeployParams struct {
	Bytecode []byte
	// ABI is optional. Without it the contract is treated as having no
	// constructor.
	ABI             *abi.ABI
	ConstructorArgs []interface{}
	// Dependencies are the bytecodes of contracts the deployed contract may
	// create, in order.
	Dependencies [][]byte
	Salt         common.Hash
}

// NewDeployRequest returns a request that calls the contract deployer with
// the bytecode and its dependencies attached as factory deps. Fees, nonce
// and gas are left for the caller to resolve.
func NewDeployRequest(from common.Address, params *DeployParams) (*TransactionRequest, error) {
	bytecodeHash, err := HashBytecode(params.Bytecode)
	if err != nil {
		return nil, err
	}

	input, err := ConstructorCallData(params.ABI, params.Bytecode, params.ConstructorArgs...)
	if err != nil {
		return nil, err
	}

	// Validate dependencies
	for i, dep := range params.Dependencies {
		if _, err := HashBytecode(dep); err != nil {
			return nil, errors.Wrapf(err, "dependency %d", i)
		}
	}

	deps := make([][]byte, 0, len(params.Dependencies)+1)
	deps = append(deps, params.Bytecode)
	deps = append(deps, params.Dependencies...)

	req := NewTransactionRequest().
		WithFrom(from).
		WithTo(ContractDeployerAddress).
		WithData(EncodeCreateCall(params.Salt, bytecodeHash, input)).
		WithCustomData(NewCustomData().WithFactoryDeps(deps...))

	return req, nil
}

// EncodeCreateCall encodes create(salt, bytecodeHash, input) with the
// standard head/tail layout.
func EncodeCreateCall(salt, bytecodeHash common.Hash, input []byte) []byte {
	padded := (len(input) + abiWordSize - 1) / abiWordSize * abiWordSize

	out := make([]byte, 0, len(CreateSelector)+(createHeadWords+1)*abiWordSize+padded)
	out = append(out, CreateSelector...)
	out = append(out, salt.Bytes()...)
	out = append(out, bytecodeHash.Bytes()...)
	out = append(out, abiUint(createHeadWords*abiWordSize)...)
	out = append(out, abiUint(uint64(len(input)))...)
	out = append(out, input...)
	out = append(out, make([]byte, padded-len(input))...)

	return out
}

// ConstructorCallData returns bytecode followed by the encoded constructor
// arguments.
func ConstructorCallData(contract *abi.ABI, bytecode []byte, args ...interface{}) ([]byte, error) {
	hasConstructor := contract != nil && contract.Constructor.String() != ""

	if !hasConstructor {
		if len(args) > 0 {
			return nil, errors.Wrapf(ErrUnexpectedConstructorArguments, "%d arguments", len(args))
		}
		return common.CopyBytes(bytecode), nil
	}

	packed, err := contract.Pack("", args...)
	if err != nil {
		return nil, errors.Wrapf(ErrConstructorArguments, "%v", err)
	}

	out := make([]byte, 0, len(bytecode)+len(packed))
	out = append(out, bytecode...)
	out = append(out, packed...)
	return out, nil
}

func abiUint(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), abiWordSize)
}
