package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/metrics"
)

// Deploy deploys a contract through the contract deployer and returns its
// address once mined.
func (w *Wallet) Deploy(ctx context.Context, req *DeployRequest) (common.Address, error) {
	deployment, err := w.DeployWithReceipt(ctx, req)
	if err != nil {
		return common.Address{}, err
	}
	return deployment.ContractAddress, nil
}

// DeployWithReceipt is Deploy that also returns the receipt.
func (w *Wallet) DeployWithReceipt(ctx context.Context, req *DeployRequest) (*Deployment, error) {
	if req == nil {
		return nil, errors.Wrap(eip712.ErrInvalidInput, "deploy request is required")
	}

	deployReq, err := eip712.NewDeployRequest(w.Address(), &eip712.DeployParams{
		Bytecode:        req.Bytecode,
		ABI:             req.ABI,
		ConstructorArgs: req.ConstructorArgs,
		Dependencies:    req.Dependencies,
		Salt:            req.Salt,
	})
	if err != nil {
		return nil, w.fail(metrics.OpDeploy, stagePrepare, errors.Wrap(err, "failed to build deploy request"))
	}
	deployReq.WithChainID(w.chainID)

	receipt, err := w.sendEIP712(ctx, metrics.OpDeploy, deployReq)
	if err != nil {
		return nil, err
	}

	if receipt.ContractAddress == (common.Address{}) {
		return nil, w.fail(metrics.OpDeploy, stageReceipt, errors.Wrap(eip712.ErrNoContractAddress, receipt.TxHash.Hex()))
	}

	return &Deployment{
		ContractAddress: receipt.ContractAddress,
		Receipt:         receipt,
	}, nil
}
