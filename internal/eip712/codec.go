package eip712

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// wireTransaction is the RLP field layout of an extended transaction.
// Field order is consensus critical.
type wireTransaction struct {
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	GasLimit             uint64
	To                   *common.Address `rlp:"nil"`
	Value                *uint256.Int
	Data                 []byte
	// V, R and S carry no signature for this type: the chain id followed by
	// two empty strings.
	V               uint64
	R               []byte
	S               []byte
	ChainID         uint64
	From            common.Address
	GasPerPubdata   uint64
	FactoryDeps     [][]byte
	CustomSignature []byte
	// PaymasterParams is either an empty list or [paymaster, input].
	PaymasterParams rlp.RawValue
}

type wirePaymasterParams struct {
	Paymaster      common.Address
	PaymasterInput []byte
}

func newWireTransaction(r *TransactionRequest) (*wireTransaction, error) {
	meta := r.customData()
	maxFee, maxPriorityFee := r.EffectiveFees()

	paymaster := rlp.RawValue(rlp.EmptyList)
	if pm := meta.PaymasterParams; pm != nil {
		enc, err := rlp.EncodeToBytes(&wirePaymasterParams{
			Paymaster:      pm.Paymaster,
			PaymasterInput: nonNilBytes(pm.PaymasterInput),
		})
		if err != nil {
			return nil, errors.Wrapf(ErrEncoding, "paymaster params: %v", err)
		}
		paymaster = enc
	}

	deps := make([][]byte, 0, len(meta.FactoryDeps))
	deps = append(deps, meta.FactoryDeps...)

	return &wireTransaction{
		Nonce:                r.Nonce,
		MaxPriorityFeePerGas: maxPriorityFee,
		MaxFeePerGas:         maxFee,
		GasLimit:             r.GasLimit,
		To:                   r.To,
		Value:                orZero(r.Value),
		Data:                 nonNilBytes(r.Data),
		V:                    r.ChainID,
		R:                    []byte{},
		S:                    []byte{},
		ChainID:              r.ChainID,
		From:                 r.From,
		GasPerPubdata:        meta.GasPerPubdata,
		FactoryDeps:          deps,
		CustomSignature:      nonNilBytes(meta.CustomSignature),
		PaymasterParams:      paymaster,
	}, nil
}

// encodeRequest returns TxType || rlp(fields).
func encodeRequest(r *TransactionRequest) ([]byte, error) {
	wire, err := newWireTransaction(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(TxType)
	if err := rlp.Encode(&buf, wire); err != nil {
		return nil, errors.Wrapf(ErrEncoding, "rlp: %v", err)
	}
	return buf.Bytes(), nil
}

func (w *wireTransaction) request() (*TransactionRequest, error) {
	meta := &CustomData{
		GasPerPubdata:   w.GasPerPubdata,
		CustomSignature: emptyToNil(w.CustomSignature),
	}
	if len(w.FactoryDeps) > 0 {
		meta.FactoryDeps = w.FactoryDeps
	}
	if !bytes.Equal(w.PaymasterParams, rlp.EmptyList) {
		var pm wirePaymasterParams
		if err := rlp.DecodeBytes(w.PaymasterParams, &pm); err != nil {
			return nil, errors.Wrapf(ErrInvalidRawTransaction, "paymaster params: %v", err)
		}
		meta.PaymasterParams = &PaymasterParams{
			Paymaster:      pm.Paymaster,
			PaymasterInput: emptyToNil(pm.PaymasterInput),
		}
	}

	return &TransactionRequest{
		From:                 w.From,
		To:                   w.To,
		Value:                orZero(w.Value),
		Data:                 emptyToNil(w.Data),
		Nonce:                w.Nonce,
		GasLimit:             w.GasLimit,
		MaxFeePerGas:         orZero(w.MaxFeePerGas),
		MaxPriorityFeePerGas: orZero(w.MaxPriorityFeePerGas),
		ChainID:              w.ChainID,
		CustomData:           meta,
	}, nil
}

// Decode parses bytes produced by SignedTransaction.Serialize.
func Decode(raw []byte) (*SignedTransaction, error) {
	if len(raw) == 0 || raw[0] != TxType {
		return nil, errors.Wrap(ErrInvalidRawTransaction, "unexpected transaction type")
	}

	var wire wireTransaction
	if err := rlp.DecodeBytes(raw[1:], &wire); err != nil {
		return nil, errors.Wrapf(ErrInvalidRawTransaction, "rlp: %v", err)
	}
	if len(wire.CustomSignature) == 0 {
		return nil, errors.Wrap(ErrInvalidRawTransaction, "missing signature")
	}

	req, err := wire.request()
	if err != nil {
		return nil, err
	}

	hash, err := req.SigningHash()
	if err != nil {
		return nil, err
	}

	return &SignedTransaction{req: req, signingHash: hash}, nil
}

func emptyToNil(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
