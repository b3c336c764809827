package bytecode

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("bytecode",
		newHash(),
	)
}

func newHash() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>",
		Short: "Prints the versioned hash of contract bytecode",
		Long: `Prints the versioned hash of contract bytecode.

The file holds either raw bytecode or its 0x-prefixed hex encoding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := ReadFile(args[0])
			if err != nil {
				return err
			}

			hash, err := eip712.HashBytecode(code)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash.Hex())
			return err
		},
	}
}

// ReadFile reads bytecode stored raw or as 0x-prefixed hex.
func ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	trimmed := bytes.TrimSpace(content)
	if !bytes.HasPrefix(trimmed, []byte("0x")) {
		return content, nil
	}

	code, err := hexutil.Decode(string(trimmed))
	if err != nil {
		return nil, errors.Wrapf(eip712.ErrInvalidInput, "invalid hex in %s: %v", path, err)
	}
	return code, nil
}
