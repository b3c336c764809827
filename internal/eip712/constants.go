package eip712

import "github.com/ethereum/go-ethereum/common"

const (
	// TxType is the EIP-2718 type tag of extended (EIP-712) transactions.
	TxType byte = 0x71

	// DefaultGasPerPubdataLimit is used when the request does not set one.
	DefaultGasPerPubdataLimit uint64 = 50000

	// EraChainID is the chain id of the local era test node.
	EraChainID uint64 = 270
	// EthChainID is the chain id of the local L1 test node.
	EthChainID uint64 = 9

	DomainName    = "zkSync"
	DomainVersion = "2"

	signatureLength = 65
)

// ContractDeployerAddress is the system contract that handles deployments.
var ContractDeployerAddress = common.HexToAddress("0x0000000000000000000000000000000000008006")
