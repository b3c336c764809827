package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
)

type service struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewService creates a signer for privateKey
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(privateKey *ecdsa.PrivateKey) (Service, error) {
	if privateKey == nil {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "private key is required")
	}

	return &service{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

func (s *service) Address() common.Address {
	return s.address
}

// SignHash signs a digest with the account key
func (s *service) SignHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(eip712.ErrSigning, "sign hash: %v", err)
	}

	sig, err := crypto.Sign(hash.Bytes(), s.privateKey)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrSigning, "sign hash: %v", err)
	}

	return sig, nil
}

// SignEVMTransaction signs an EVM transaction (EIP-1559)
func (s *service) SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(eip712.ErrSigning, "sign transaction: %v", err)
	}

	return s.signEIP1559Transaction(req)
}
