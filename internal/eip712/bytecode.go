package eip712

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	bytecodeWordSize     = 32
	bytecodeHashVersion  = 0x01
	maxBytecodeWordCount = 1<<16 - 1
)

// HashBytecode returns the versioned hash the network uses to identify
// deployed bytecode:
//
//	byte 0     version (0x01)
//	byte 1     reserved (0x00)
//	bytes 2-3  length in 32-byte words, big endian
//	bytes 4-31 sha256(bytecode)[4:]
func HashBytecode(bytecode []byte) (common.Hash, error) {
	if len(bytecode)%bytecodeWordSize != 0 {
		return common.Hash{}, errors.Wrapf(ErrInvalidBytecodeLength, "length %d", len(bytecode))
	}

	words := len(bytecode) / bytecodeWordSize
	if words > maxBytecodeWordCount {
		return common.Hash{}, errors.Wrapf(ErrBytecodeTooLong, "%d words", words)
	}

	digest := sha256.Sum256(bytecode)

	var hash common.Hash
	copy(hash[4:], digest[4:])
	hash[0] = bytecodeHashVersion
	hash[1] = 0
	binary.BigEndian.PutUint16(hash[2:4], uint16(words))

	return hash, nil
}
