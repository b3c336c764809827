package eip712

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrInvalidInput reports malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIncompleteRequest reports hashing or serializing before required fields are set.
	ErrIncompleteRequest = errors.New("incomplete request")
	// ErrSigning reports a signer failure or a signature that does not match the request.
	ErrSigning = errors.New("signing error")
	// ErrProvider reports a failing external dependency (node, estimator, transport).
	ErrProvider = errors.New("provider error")
	// ErrEncoding reports an internal invariant violation during serialization.
	ErrEncoding = errors.New("encoding error")
)

var (
	ErrInvalidBytecodeLength          = fmt.Errorf("%w: bytecode length is not divisible by 32", ErrInvalidInput)
	ErrBytecodeTooLong                = fmt.Errorf("%w: bytecode word count does not fit in 16 bits", ErrInvalidInput)
	ErrUnexpectedConstructorArguments = fmt.Errorf("%w: constructor arguments supplied but contract has no constructor", ErrInvalidInput)
	ErrConstructorArguments           = fmt.Errorf("%w: failed to encode constructor arguments", ErrInvalidInput)
	ErrInvalidPaymasterParams         = fmt.Errorf("%w: paymaster params require both address and input", ErrInvalidInput)
	ErrInvalidSignature               = fmt.Errorf("%w: malformed signature", ErrInvalidInput)
	ErrInvalidRawTransaction          = fmt.Errorf("%w: malformed raw transaction", ErrInvalidInput)
	ErrChainIDMismatch                = fmt.Errorf("%w: node serves a different chain", ErrInvalidInput)

	ErrMissingField = fmt.Errorf("%w: missing field", ErrIncompleteRequest)
	ErrDraftRequest = fmt.Errorf("%w: draft requests cannot be signed", ErrIncompleteRequest)

	ErrSignatureMismatch = fmt.Errorf("%w: signature does not recover to sender", ErrSigning)

	ErrEstimationUnavailable = fmt.Errorf("%w: fee estimation unavailable", ErrProvider)
	ErrNoReceipt             = fmt.Errorf("%w: no transaction receipt", ErrProvider)
	ErrNoContractAddress     = fmt.Errorf("%w: receipt has no contract address", ErrProvider)
	ErrProviderNotConnected  = fmt.Errorf("%w: provider not connected", ErrProvider)
)
