package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/rpc"
)

// KeyedProvider is a built-in wallet holding a single private key. It behaves like a browser
// wallet: it only knows the chains it was started on or has been asked to add, and it signs
// transactions locally.
type KeyedProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address

	mu     sync.Mutex
	chains map[uint64]*gethrpc.Client
	active uint64
}

// NewKeyedProvider loads hexKey and starts on the chain served at rpcURL
func NewKeyedProvider(ctx context.Context, hexKey string, rpcURL string) (*KeyedProvider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}

	p := &KeyedProvider{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chains:  make(map[uint64]*gethrpc.Client),
	}

	chainID, client, err := p.dialChain(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	p.chains[chainID] = client
	p.active = chainID

	return p, nil
}

// Address is the account this wallet signs for
func (p *KeyedProvider) Address() common.Address {
	return p.address
}

func (p *KeyedProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	switch method {
	case MethodRequestAccounts, MethodAccounts:
		return assign(result, []common.Address{p.address})

	case MethodChainID:
		p.mu.Lock()
		active := p.active
		p.mu.Unlock()
		return assign(result, hexutil.Uint64(active))

	case MethodSwitchChain:
		var args SwitchChainParams
		if err := decodeParam(params, 0, &args); err != nil {
			return err
		}
		chainID, err := hexutil.DecodeUint64(args.ChainID)
		if err != nil {
			return rpc.WalletError{Code: -32602, Message: fmt.Sprintf("invalid chainId %q", args.ChainID)}
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.chains[chainID]; !ok {
			return rpc.WalletError{
				Code:    rpc.CodeUnrecognizedChain,
				Message: fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", args.ChainID),
			}
		}
		p.active = chainID
		return assign(result, nil)

	case MethodAddChain:
		var args AddChainParams
		if err := decodeParam(params, 0, &args); err != nil {
			return err
		}
		return p.addChain(ctx, args, result)

	case MethodSendTransaction:
		var args TransactionArgs
		if err := decodeParam(params, 0, &args); err != nil {
			return err
		}
		hash, err := p.sendTransaction(ctx, args)
		if err != nil {
			return err
		}
		return assign(result, hash)
	}

	client, _ := p.activeClient()
	return client.CallContext(ctx, result, method, params...)
}

// Close closes every chain connection
func (p *KeyedProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.chains {
		c.Close()
	}
}

func (p *KeyedProvider) addChain(ctx context.Context, args AddChainParams, result interface{}) error {
	want, err := hexutil.DecodeUint64(args.ChainID)
	if err != nil {
		return rpc.WalletError{Code: -32602, Message: fmt.Sprintf("invalid chainId %q", args.ChainID)}
	}
	if len(args.RPCURLs) == 0 {
		return rpc.WalletError{Code: -32602, Message: "rpcUrls must contain at least one url"}
	}

	got, client, err := p.dialChain(ctx, args.RPCURLs[0])
	if err != nil {
		return err
	}
	if got != want {
		client.Close()
		return rpc.WalletError{Code: -32602, Message: fmt.Sprintf("chain id %d returned by %s does not match %d", got, args.RPCURLs[0], want)}
	}

	p.mu.Lock()
	if old, ok := p.chains[want]; ok {
		old.Close()
	}
	p.chains[want] = client
	p.active = want
	p.mu.Unlock()

	logger.For(ctx).Infof("added chain %s (%d) and switched to it", args.ChainName, want)
	return assign(result, nil)
}

func (p *KeyedProvider) dialChain(ctx context.Context, url string) (uint64, *gethrpc.Client, error) {
	client, err := rpc.DialClient(ctx, url)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	var chainID hexutil.Uint64
	if err := client.CallContext(ctx, &chainID, MethodChainID); err != nil {
		client.Close()
		return 0, nil, fmt.Errorf("failed to read chain id from %s: %w", url, err)
	}
	return uint64(chainID), client, nil
}

func (p *KeyedProvider) activeClient() (*gethrpc.Client, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chains[p.active], p.active
}

func (p *KeyedProvider) sendTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error) {
	if args.From != (common.Address{}) && args.From != p.address {
		return common.Hash{}, rpc.WalletError{Code: 4100, Message: fmt.Sprintf("unknown account %s", args.From.Hex())}
	}

	client, chainID := p.activeClient()
	ec := ethclient.NewClient(client)

	value := new(big.Int)
	if args.Value != nil {
		value = args.Value.ToInt()
	}

	nonce, err := ec.PendingNonceAt(ctx, p.address)
	if err != nil {
		return common.Hash{}, err
	}

	gasPrice, err := ec.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	var gas uint64
	if args.Gas != nil {
		gas = uint64(*args.Gas)
	} else {
		gas, err = ec.EstimateGas(ctx, ethereum.CallMsg{
			From:  p.address,
			To:    args.To,
			Value: value,
			Data:  args.Data,
		})
		if err != nil {
			return common.Hash{}, err
		}
	}

	var tx *types.Transaction
	if tip, tipErr := ec.SuggestGasTipCap(ctx); tipErr == nil {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(chainID),
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: new(big.Int).Add(new(big.Int).Mul(gasPrice, big.NewInt(2)), tip),
			Gas:       gas,
			To:        args.To,
			Value:     value,
			Data:      args.Data,
		})
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       args.To,
			Value:    value,
			Data:     args.Data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(new(big.Int).SetUint64(chainID)), p.key)
	if err != nil {
		return common.Hash{}, err
	}

	if err := ec.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}

	logger.For(ctx).Debugf("sent transaction %s from %s", signed.Hash().Hex(), p.address.Hex())
	return signed.Hash(), nil
}
