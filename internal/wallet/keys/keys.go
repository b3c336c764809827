// Package keys loads the signing key of a wallet from a hex string, an
// encrypted keystore file or a BIP-39 mnemonic.
package keys

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/go-zkwallet/internal/eip712"
)

// DefaultDerivationPath is the first account of the standard Ethereum path.
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// FromHex parses a hex encoded private key with or without 0x prefix.
func FromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "private key: %v", err)
	}
	return key, nil
}

// FromKeystore decrypts an Ethereum v3 keystore file.
func FromKeystore(keyJSON []byte, password string) (*ecdsa.PrivateKey, error) {
	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "keystore: %v", err)
	}
	return key.PrivateKey, nil
}

// EncryptKeystore encrypts privateKey into an Ethereum v3 keystore file.
// Use keystore.StandardScryptN/P outside of tests.
func EncryptKeystore(privateKey *ecdsa.PrivateKey, password string, scryptN, scryptP int) ([]byte, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate key id")
	}

	key := &keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	keyJSON, err := keystore.EncryptKey(key, password, scryptN, scryptP)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt key")
	}

	return keyJSON, nil
}

// FromMnemonic derives the key at path from a BIP-39 mnemonic. An empty path
// selects DefaultDerivationPath.
func FromMnemonic(mnemonic string, passphrase string, path string) (*ecdsa.PrivateKey, error) {
	// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), passphrase)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "mnemonic: %v", err)
	}

	// Clear seed after use
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	if path == "" {
		path = DefaultDerivationPath
	}

	privateKey, err := DerivePrivateKey(seed, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return key, nil
}

// NewMnemonic returns a fresh 24 word mnemonic.
func NewMnemonic() (string, error) {
	const entropyBits = 256

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	return bip39.NewMnemonic(entropy)
}

// DerivePrivateKey derives a private key from seed and BIP-44 path
// WARNING: Caller must clear the private key after use
func DerivePrivateKey(seed []byte, path string) ([]byte, error) {
	indices, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "derivation path %q: %v", path, err)
	}

	// Create master key from seed
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	// Derive key step by step
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	// Return private key (32 bytes)
	return key.Key, nil
}
