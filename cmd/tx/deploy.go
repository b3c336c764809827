package tx

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/cmd/bytecode"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util/command"
	"github/chapool/go-zkwallet/internal/wallet"
)

const (
	bytecodeFlag string = "bytecode"
	abiFlag      string = "abi"
	argFlag      string = "arg"
	depFlag      string = "dep"
	saltFlag     string = "salt"
)

func newDeploy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploys a contract through the contract deployer",
		Long: `Deploys a contract through the contract deployer and prints its address.

Bytecode files hold raw bytecode or its 0x-prefixed hex encoding. Constructor
arguments are passed with --arg, in order, and require --abi.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := deployRequestFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				deployment, err := a.Wallet.DeployWithReceipt(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), newReceiptView(deployment.Receipt))
			})
		},
	}

	cmd.Flags().String(bytecodeFlag, "", "Path to the contract bytecode")
	cmd.Flags().String(abiFlag, "", "Path to the contract ABI JSON")
	cmd.Flags().StringArray(argFlag, nil, "Constructor argument, repeat in order")
	cmd.Flags().StringArray(depFlag, nil, "Path to the bytecode of a factory dependency, repeat in order")
	cmd.Flags().String(saltFlag, "", "Create2 salt as 32 bytes of hex, zero when empty")
	_ = cmd.MarkFlagRequired(bytecodeFlag)

	return cmd
}

func deployRequestFromFlags(cmd *cobra.Command) (*wallet.DeployRequest, error) {
	flags := cmd.Flags()

	bytecodePath, _ := flags.GetString(bytecodeFlag)
	code, err := bytecode.ReadFile(bytecodePath)
	if err != nil {
		return nil, err
	}
	req := &wallet.DeployRequest{Bytecode: code}

	if abiPath, _ := flags.GetString(abiFlag); abiPath != "" {
		f, err := os.Open(abiPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", abiPath)
		}
		defer f.Close()

		contract, err := abi.JSON(f)
		if err != nil {
			return nil, errors.Wrapf(eip712.ErrInvalidInput, "invalid ABI %s: %v", abiPath, err)
		}
		req.ABI = &contract
	}

	rawArgs, _ := flags.GetStringArray(argFlag)
	if req.ConstructorArgs, err = ParseConstructorArgs(req.ABI, rawArgs); err != nil {
		return nil, err
	}

	depPaths, _ := flags.GetStringArray(depFlag)
	for _, path := range depPaths {
		dep, err := bytecode.ReadFile(path)
		if err != nil {
			return nil, err
		}
		req.Dependencies = append(req.Dependencies, dep)
	}

	if saltRaw, _ := flags.GetString(saltFlag); saltRaw != "" {
		salt, err := hexutil.Decode(saltRaw)
		if err != nil || len(salt) != common.HashLength {
			return nil, errors.Wrapf(eip712.ErrInvalidInput, "--%s must be 32 bytes of hex", saltFlag)
		}
		req.Salt = common.BytesToHash(salt)
	}

	return req, nil
}
