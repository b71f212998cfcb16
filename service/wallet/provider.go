package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/superpiccell/spen-minter/service/rpc"
)

// Wallet request methods
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
	MethodSendTransaction = "eth_sendTransaction"
)

// Provider is an EIP-1193 wallet: every interaction is a JSON-RPC style request whose
// response is decoded into result. Errors carrying a code implement go-ethereum's rpc.Error.
type Provider interface {
	Request(ctx context.Context, result interface{}, method string, params ...interface{}) error
}

// SwitchChainParams is the single parameter of wallet_switchEthereumChain
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// AddChainParams is the single parameter of wallet_addEthereumChain
type AddChainParams struct {
	ChainID   string   `json:"chainId"`
	ChainName string   `json:"chainName"`
	RPCURLs   []string `json:"rpcUrls"`
}

// TransactionArgs is the single parameter of eth_sendTransaction
type TransactionArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// RPCProvider forwards every request to an external wallet's JSON-RPC endpoint
type RPCProvider struct {
	client *gethrpc.Client
}

// NewRPCProvider dials the wallet endpoint at url
func NewRPCProvider(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := rpc.DialClient(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet at %s: %w", url, err)
	}
	return &RPCProvider{client: client}, nil
}

func (p *RPCProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return p.client.CallContext(ctx, result, method, params...)
}

func (p *RPCProvider) Close() {
	p.client.Close()
}

// decodeParam re-decodes params[i] into out, so callers may pass either typed structs or generic maps
func decodeParam(params []interface{}, i int, out interface{}) error {
	if len(params) <= i {
		return rpc.WalletError{Code: -32602, Message: fmt.Sprintf("missing value for required argument %d", i)}
	}
	bs, err := json.Marshal(params[i])
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return rpc.WalletError{Code: -32602, Message: fmt.Sprintf("invalid argument %d: %s", i, err)}
	}
	return nil
}

// assign copies value into result the way a JSON-RPC client would
func assign(result interface{}, value interface{}) error {
	if result == nil {
		return nil
	}
	bs, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, result)
}
