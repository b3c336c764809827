package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/go-zkwallet/internal/eip712"
	"golang.org/x/crypto/scrypt"
)

const (
	mnemonicKeystoreVersion = 3
	mnemonicCipher          = "aes-128-ctr"
	mnemonicKDF             = "scrypt"

	scryptR     = 8
	scryptDKLen = 32
	saltLength  = 32
	ivLength    = aes.BlockSize
)

// MnemonicKeystore is a v3 keystore file whose ciphertext is a BIP-39
// mnemonic instead of a private key.
type MnemonicKeystore struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// SealMnemonic encrypts mnemonic with password. Use
// keystore.StandardScryptN/P outside of tests.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func SealMnemonic(mnemonic string, password string, scryptN, scryptP int) ([]byte, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "invalid mnemonic")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := aes128CTR(derivedKey[:16], iv, []byte(mnemonic))
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate keystore id")
	}

	ks := &MnemonicKeystore{Version: mnemonicKeystoreVersion, ID: id.String()}
	ks.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	ks.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	ks.Crypto.Cipher = mnemonicCipher
	ks.Crypto.KDF = mnemonicKDF
	ks.Crypto.KDFParams.DKLen = scryptDKLen
	ks.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	ks.Crypto.KDFParams.N = scryptN
	ks.Crypto.KDFParams.R = scryptR
	ks.Crypto.KDFParams.P = scryptP
	ks.Crypto.MAC = hex.EncodeToString(crypto.Keccak256(derivedKey[16:32], ciphertext))

	return json.MarshalIndent(ks, "", "  ")
}

// OpenMnemonic decrypts a file written by SealMnemonic.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func OpenMnemonic(data []byte, password string) (string, error) {
	var ks MnemonicKeystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "mnemonic keystore: %v", err)
	}
	if ks.Version != mnemonicKeystoreVersion || ks.Crypto.Cipher != mnemonicCipher || ks.Crypto.KDF != mnemonicKDF {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "unsupported mnemonic keystore (version %d, %s, %s)",
			ks.Version, ks.Crypto.Cipher, ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "salt: %v", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil || len(iv) != ivLength {
		return "", errors.Wrap(eip712.ErrInvalidInput, "invalid IV")
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "ciphertext: %v", err)
	}
	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "mac: %v", err)
	}
	if ks.Crypto.KDFParams.DKLen < scryptDKLen {
		return "", errors.Wrap(eip712.ErrInvalidInput, "derived key too short")
	}

	params := ks.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", errors.Wrapf(eip712.ErrInvalidInput, "derive key: %v", err)
	}

	mac := crypto.Keccak256(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return "", errors.Wrap(eip712.ErrInvalidInput, "could not decrypt mnemonic with given password")
	}

	plaintext, err := aes128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// aes128CTR encrypts and decrypts, CTR mode is symmetric.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}
