package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Fee is the result of a fee estimation for a request.
type Fee struct {
	GasLimit             uint64
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	// GasPerPubdataLimit is optional; zero keeps the request's value.
	GasPerPubdataLimit uint64
}

// TransactionRequest is the mutable builder of an extended transaction.
// Setters return the receiver so calls can be chained. Once Prepare has
// been called the prepared snapshot is independent of further changes.
type TransactionRequest struct {
	From                 common.Address
	To                   *common.Address
	Value                *uint256.Int
	Data                 []byte
	Nonce                uint64
	GasPrice             *uint256.Int
	GasLimit             uint64
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	ChainID              uint64
	CustomData           *CustomData

	draft bool
}

// NewTransactionRequest returns a request for the era chain with zero value
// and default custom data.
func NewTransactionRequest() *TransactionRequest {
	return &TransactionRequest{
		Value:      new(uint256.Int),
		ChainID:    EraChainID,
		CustomData: NewCustomData(),
	}
}

// Type is always TxType.
func (r *TransactionRequest) Type() byte { return TxType }

func (r *TransactionRequest) WithFrom(from common.Address) *TransactionRequest {
	r.From = from
	return r
}

func (r *TransactionRequest) WithTo(to common.Address) *TransactionRequest {
	r.To = &to
	return r
}

func (r *TransactionRequest) WithValue(value *uint256.Int) *TransactionRequest {
	r.Value = cloneU256(value)
	return r
}

func (r *TransactionRequest) WithData(data []byte) *TransactionRequest {
	r.Data = common.CopyBytes(data)
	return r
}

func (r *TransactionRequest) WithNonce(nonce uint64) *TransactionRequest {
	r.Nonce = nonce
	return r
}

func (r *TransactionRequest) WithGasPrice(price *uint256.Int) *TransactionRequest {
	r.GasPrice = cloneU256(price)
	return r
}

func (r *TransactionRequest) WithGasLimit(limit uint64) *TransactionRequest {
	r.GasLimit = limit
	return r
}

func (r *TransactionRequest) WithMaxFeePerGas(fee *uint256.Int) *TransactionRequest {
	r.MaxFeePerGas = cloneU256(fee)
	return r
}

func (r *TransactionRequest) WithMaxPriorityFeePerGas(fee *uint256.Int) *TransactionRequest {
	r.MaxPriorityFeePerGas = cloneU256(fee)
	return r
}

func (r *TransactionRequest) WithChainID(chainID uint64) *TransactionRequest {
	r.ChainID = chainID
	return r
}

// WithCustomData stores a copy of meta; later changes to meta are not seen.
func (r *TransactionRequest) WithCustomData(meta *CustomData) *TransactionRequest {
	if meta == nil {
		r.CustomData = NewCustomData()
		return r
	}
	r.CustomData = meta.copy()
	return r
}

// ApplyFee sets the estimated gas limit and fee-market fields.
func (r *TransactionRequest) ApplyFee(fee *Fee) *TransactionRequest {
	if fee == nil {
		return r
	}
	r.GasLimit = fee.GasLimit
	r.MaxFeePerGas = cloneU256(fee.MaxFeePerGas)
	r.MaxPriorityFeePerGas = cloneU256(fee.MaxPriorityFeePerGas)
	if fee.GasPerPubdataLimit != 0 {
		r.customData().GasPerPubdata = fee.GasPerPubdataLimit
	}
	return r
}

// AsDraft marks the request as estimate-only: it may be converted to typed
// data with unresolved fees but can never be prepared for signing.
func (r *TransactionRequest) AsDraft() *TransactionRequest {
	r.draft = true
	return r
}

func (r *TransactionRequest) IsDraft() bool { return r.draft }

// Clone returns a deep copy.
func (r *TransactionRequest) Clone() *TransactionRequest {
	cpy := &TransactionRequest{
		From:                 r.From,
		Value:                cloneU256(r.Value),
		Data:                 common.CopyBytes(r.Data),
		Nonce:                r.Nonce,
		GasPrice:             cloneU256(r.GasPrice),
		GasLimit:             r.GasLimit,
		MaxFeePerGas:         cloneU256(r.MaxFeePerGas),
		MaxPriorityFeePerGas: cloneU256(r.MaxPriorityFeePerGas),
		ChainID:              r.ChainID,
		draft:                r.draft,
	}
	if r.To != nil {
		to := *r.To
		cpy.To = &to
	}
	if r.CustomData != nil {
		cpy.CustomData = r.CustomData.copy()
	}
	return cpy
}

// EffectiveFees returns the fee-market values that get signed. The max fee
// falls back to the gas price; an unset priority fee is zero.
func (r *TransactionRequest) EffectiveFees() (maxFee, maxPriorityFee *uint256.Int) {
	maxFee = r.MaxFeePerGas
	if isZero(maxFee) {
		maxFee = r.GasPrice
	}
	return orZero(maxFee), orZero(r.MaxPriorityFeePerGas)
}

// TypedTransaction converts the request into the typed-data model.
func (r *TransactionRequest) TypedTransaction() (*Transaction, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	meta := r.customData()
	deps, err := meta.factoryDepHashes()
	if err != nil {
		return nil, err
	}

	maxFee, maxPriorityFee := r.EffectiveFees()
	tx := &Transaction{
		TxType:                 TxType,
		From:                   r.From,
		To:                     *r.To,
		GasLimit:               r.GasLimit,
		GasPerPubdataByteLimit: meta.GasPerPubdata,
		MaxFeePerGas:           maxFee,
		MaxPriorityFeePerGas:   maxPriorityFee,
		Nonce:                  r.Nonce,
		Value:                  orZero(r.Value),
		Data:                   common.CopyBytes(r.Data),
		FactoryDeps:            deps,
		ChainID:                r.ChainID,
	}
	if pm := meta.PaymasterParams; pm != nil {
		tx.Paymaster = pm.Paymaster
		tx.PaymasterInput = common.CopyBytes(pm.PaymasterInput)
	}

	return tx, nil
}

// SigningHash is shorthand for TypedTransaction followed by Hash.
func (r *TransactionRequest) SigningHash() (common.Hash, error) {
	tx, err := r.TypedTransaction()
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash()
}

// Prepare freezes a copy of the request together with its signing hash.
// Drafts are rejected.
func (r *TransactionRequest) Prepare() (*SignableRequest, error) {
	if r.draft {
		return nil, ErrDraftRequest
	}

	snapshot := r.Clone()
	if snapshot.CustomData == nil {
		snapshot.CustomData = NewCustomData()
	}

	hash, err := snapshot.SigningHash()
	if err != nil {
		return nil, err
	}

	return &SignableRequest{req: snapshot, hash: hash}, nil
}

func (r *TransactionRequest) validate() error {
	if r.From == (common.Address{}) {
		return errors.Wrap(ErrMissingField, "from")
	}
	if r.To == nil {
		return errors.Wrap(ErrMissingField, "to")
	}
	if r.ChainID == 0 {
		return errors.Wrap(ErrMissingField, "chain id")
	}

	if !r.draft {
		maxFee, _ := r.EffectiveFees()
		if maxFee.IsZero() {
			return errors.Wrap(ErrMissingField, "max fee per gas")
		}
		if r.GasLimit == 0 {
			return errors.Wrap(ErrMissingField, "gas limit")
		}
	}

	if pm := r.customData().PaymasterParams; pm != nil {
		if err := pm.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (r *TransactionRequest) customData() *CustomData {
	if r.CustomData == nil {
		r.CustomData = NewCustomData()
	}
	return r.CustomData
}

func cloneU256(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return new(uint256.Int).Set(v)
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

func isZero(v *uint256.Int) bool {
	return v == nil || v.IsZero()
}
