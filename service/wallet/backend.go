package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/superpiccell/spen-minter/service/logger"
)

// ErrReceiptFailed is returned when a mined transaction reverted
var ErrReceiptFailed = errors.New("transaction failed")

// Backend reads contract state through a wallet provider, the same way a browser dApp reads
// through the injected provider
type Backend struct {
	provider Provider
}

var _ bind.ContractCaller = (*Backend)(nil)

// NewBackend returns a contract backend that sends every call through provider
func NewBackend(provider Provider) *Backend {
	return &Backend{provider: provider}
}

// CodeAt returns the code of the given account
func (b *Backend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var result hexutil.Bytes
	err := b.provider.Request(ctx, &result, "eth_getCode", contract, toBlockNumArg(blockNumber))
	return result, err
}

// CallContract executes a message call transaction without creating a transaction on chain
func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var hex hexutil.Bytes
	err := b.provider.Request(ctx, &hex, "eth_call", toCallArg(msg), toBlockNumArg(blockNumber))
	if err != nil {
		return nil, err
	}
	return hex, nil
}

// TransactionReceipt returns the receipt of a mined transaction, or ethereum.NotFound while it is pending
func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var r *types.Receipt
	err := b.provider.Request(ctx, &r, "eth_getTransactionReceipt", txHash)
	if err == nil && r == nil {
		return nil, ethereum.NotFound
	}
	return r, err
}

// SendTransaction asks the wallet to sign and submit args and returns the transaction hash
func (b *Backend) SendTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error) {
	var hash common.Hash
	if err := b.provider.Request(ctx, &hash, MethodSendTransaction, args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// WaitMined waits for the transaction to be mined and fails if it reverted
func (b *Backend) WaitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	if interval <= 0 {
		interval = time.Second
	}
	queryTicker := time.NewTicker(interval)
	defer queryTicker.Stop()

	for {
		receipt, err := b.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w: %s", ErrReceiptFailed, hash.Hex())
			}
			return receipt, nil
		}

		if errors.Is(err, ethereum.NotFound) {
			logger.For(ctx).Tracef("transaction %s not yet mined", hash.Hex())
		} else {
			logger.For(ctx).Tracef("receipt retrieval for %s failed: %s", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}

func toCallArg(msg ethereum.CallMsg) interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	return arg
}
