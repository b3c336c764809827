package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// PaymasterParams names the paymaster sponsoring the transaction fees and the
// input passed to it.
type PaymasterParams struct {
	Paymaster      common.Address
	PaymasterInput []byte
}

func (p *PaymasterParams) validate() error {
	if p.Paymaster == (common.Address{}) || len(p.PaymasterInput) == 0 {
		return ErrInvalidPaymasterParams
	}
	return nil
}

// CustomData holds the fields of an extended transaction that standard
// fee-market transactions do not have.
type CustomData struct {
	GasPerPubdata uint64
	// FactoryDeps is ordered; the order is part of what gets signed.
	FactoryDeps     [][]byte
	CustomSignature []byte
	PaymasterParams *PaymasterParams
}

// NewCustomData returns custom data with the default pubdata price limit.
func NewCustomData() *CustomData {
	return &CustomData{GasPerPubdata: DefaultGasPerPubdataLimit}
}

func (m *CustomData) WithGasPerPubdata(limit uint64) *CustomData {
	m.GasPerPubdata = limit
	return m
}

// WithFactoryDeps replaces the factory dependencies.
func (m *CustomData) WithFactoryDeps(deps ...[]byte) *CustomData {
	m.FactoryDeps = make([][]byte, 0, len(deps))
	for _, dep := range deps {
		m.FactoryDeps = append(m.FactoryDeps, common.CopyBytes(dep))
	}
	return m
}

func (m *CustomData) WithCustomSignature(signature []byte) *CustomData {
	m.CustomSignature = common.CopyBytes(signature)
	return m
}

func (m *CustomData) WithPaymasterParams(paymaster common.Address, input []byte) *CustomData {
	m.PaymasterParams = &PaymasterParams{
		Paymaster:      paymaster,
		PaymasterInput: common.CopyBytes(input),
	}
	return m
}

// factoryDepHashes hashes every factory dependency in order.
func (m *CustomData) factoryDepHashes() ([]common.Hash, error) {
	hashes := make([]common.Hash, 0, len(m.FactoryDeps))
	for i, dep := range m.FactoryDeps {
		hash, err := HashBytecode(dep)
		if err != nil {
			return nil, errors.Wrapf(err, "factory dependency %d", i)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (m *CustomData) copy() *CustomData {
	cpy := &CustomData{
		GasPerPubdata:   m.GasPerPubdata,
		CustomSignature: common.CopyBytes(m.CustomSignature),
	}
	if m.FactoryDeps != nil {
		cpy.FactoryDeps = make([][]byte, len(m.FactoryDeps))
		for i, dep := range m.FactoryDeps {
			cpy.FactoryDeps[i] = common.CopyBytes(dep)
		}
	}
	if m.PaymasterParams != nil {
		cpy.PaymasterParams = &PaymasterParams{
			Paymaster:      m.PaymasterParams.Paymaster,
			PaymasterInput: common.CopyBytes(m.PaymasterParams.PaymasterInput),
		}
	}
	return cpy
}
