package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const recoveryIDOffset = 27

// SignableRequest is a frozen request together with its signing hash. It has
// no setters: the only way forward is attaching a signature.
type SignableRequest struct {
	req  *TransactionRequest
	hash common.Hash
}

// Hash returns the EIP-712 digest to be signed.
func (s *SignableRequest) Hash() common.Hash { return s.hash }

func (s *SignableRequest) From() common.Address { return s.req.From }

// Request returns a copy of the frozen request.
func (s *SignableRequest) Request() *TransactionRequest { return s.req.Clone() }

// AttachSignature attaches a 65 byte [R || S || V] ECDSA signature over Hash.
// V may be 0/1 or 27/28; it is stored as 27/28. The signature must recover
// to the request sender.
func (s *SignableRequest) AttachSignature(sig []byte) (*SignedTransaction, error) {
	if len(sig) != signatureLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "length %d", len(sig))
	}

	stored := common.CopyBytes(sig)
	if stored[64] < recoveryIDOffset {
		stored[64] += recoveryIDOffset
	}
	if stored[64] != recoveryIDOffset && stored[64] != recoveryIDOffset+1 {
		return nil, errors.Wrapf(ErrInvalidSignature, "recovery id %d", sig[64])
	}

	signer, err := recoverSigner(s.hash, stored)
	if err != nil {
		return nil, err
	}
	if signer != s.req.From {
		return nil, errors.Wrapf(ErrSignatureMismatch, "recovered %s, sender %s", signer.Hex(), s.req.From.Hex())
	}

	return s.seal(stored), nil
}

// AttachCustomSignature attaches an arbitrary non-empty signature, as used by
// smart contract accounts. It is not checked against the sender.
func (s *SignableRequest) AttachCustomSignature(sig []byte) (*SignedTransaction, error) {
	if len(sig) == 0 {
		return nil, errors.Wrap(ErrInvalidSignature, "empty custom signature")
	}
	return s.seal(common.CopyBytes(sig)), nil
}

// SealPresetSignature seals the request with the custom signature that was
// already present in its custom data.
func (s *SignableRequest) SealPresetSignature() (*SignedTransaction, error) {
	return s.AttachCustomSignature(s.req.customData().CustomSignature)
}

func (s *SignableRequest) seal(sig []byte) *SignedTransaction {
	req := s.req.Clone()
	req.customData().CustomSignature = sig
	return &SignedTransaction{req: req, signingHash: s.hash}
}

// SignedTransaction is a request with its signature attached. It can only
// be serialized.
type SignedTransaction struct {
	req         *TransactionRequest
	signingHash common.Hash
}

func (t *SignedTransaction) SigningHash() common.Hash { return t.signingHash }

func (t *SignedTransaction) Signature() []byte {
	return common.CopyBytes(t.req.customData().CustomSignature)
}

// Request returns a copy of the signed fields.
func (t *SignedTransaction) Request() *TransactionRequest { return t.req.Clone() }

// Hash returns the transaction hash the network assigns:
// keccak256(signingHash || keccak256(signature)).
func (t *SignedTransaction) Hash() common.Hash {
	return crypto.Keccak256Hash(t.signingHash.Bytes(), crypto.Keccak256(t.req.customData().CustomSignature))
}

// Sender recovers the signer of an ECDSA signature.
func (t *SignedTransaction) Sender() (common.Address, error) {
	sig := t.req.customData().CustomSignature
	if len(sig) != signatureLength {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, "not an ECDSA signature")
	}
	return recoverSigner(t.signingHash, sig)
}

// Serialize returns the wire bytes: TxType || rlp(fields).
func (t *SignedTransaction) Serialize() ([]byte, error) {
	return encodeRequest(t.req)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *SignedTransaction) MarshalBinary() ([]byte, error) {
	return t.Serialize()
}

func recoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	rsv := common.CopyBytes(sig)
	if rsv[64] >= recoveryIDOffset {
		rsv[64] -= recoveryIDOffset
	}

	pub, err := crypto.SigToPub(hash.Bytes(), rsv)
	if err != nil {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature, "recover: %v", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
