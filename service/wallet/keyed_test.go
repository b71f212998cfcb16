package wallet

import (
	"context"
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc"
)

type fakeEth struct {
	chainID uint64

	mu   sync.Mutex
	sent []*types.Transaction
}

func (f *fakeEth) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(f.chainID)
}

func (f *fakeEth) GetTransactionCount(addr common.Address, block string) hexutil.Uint64 {
	return 7
}

func (f *fakeEth) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(2_000_000_000))
}

func (f *fakeEth) MaxPriorityFeePerGas() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(1_000_000_000))
}

func (f *fakeEth) EstimateGas(args map[string]interface{}) hexutil.Uint64 {
	return 90000
}

func (f *fakeEth) SendRawTransaction(data hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(data); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return tx.Hash(), nil
}

func newChainServer(t *testing.T, chainID uint64) (*fakeEth, string) {
	t.Helper()
	eth := &fakeEth{chainID: chainID}
	srv := gethrpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", eth))
	httpSrv := httptest.NewServer(srv)
	t.Cleanup(func() {
		httpSrv.Close()
		srv.Stop()
	})
	return eth, httpSrv.URL
}

func newKeyedProvider(t *testing.T, url string) (*KeyedProvider, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p, err := NewKeyedProvider(context.Background(), hexutil.Encode(crypto.FromECDSA(key)), url)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, crypto.PubkeyToAddress(key.PublicKey)
}

func TestKeyedProviderAccounts(t *testing.T) {
	_, url := newChainServer(t, 1)
	p, addr := newKeyedProvider(t, url)

	var accounts []common.Address
	require.NoError(t, p.Request(context.Background(), &accounts, MethodRequestAccounts))
	assert.Equal(t, []common.Address{addr}, accounts)
	assert.Equal(t, addr, p.Address())
}

func TestKeyedProviderChains(t *testing.T) {
	ctx := context.Background()
	_, mainURL := newChainServer(t, 1)
	_, goerliURL := newChainServer(t, 5)
	p, _ := newKeyedProvider(t, mainURL)

	t.Run("switching to an unknown chain reports 4902", func(t *testing.T) {
		err := p.Request(ctx, nil, MethodSwitchChain, SwitchChainParams{ChainID: "0x5"})
		assert.True(t, rpc.IsUnrecognizedChain(err))
	})

	t.Run("adding a chain switches to it", func(t *testing.T) {
		err := p.Request(ctx, nil, MethodAddChain, AddChainParams{ChainID: "0x5", ChainName: "Goerli", RPCURLs: []string{goerliURL}})
		require.NoError(t, err)

		var chainID hexutil.Uint64
		require.NoError(t, p.Request(ctx, &chainID, MethodChainID))
		assert.Equal(t, uint64(5), uint64(chainID))
	})

	t.Run("known chains can be switched back to", func(t *testing.T) {
		require.NoError(t, p.Request(ctx, nil, MethodSwitchChain, map[string]interface{}{"chainId": "0x1"}))

		var chainID hexutil.Uint64
		require.NoError(t, p.Request(ctx, &chainID, MethodChainID))
		assert.Equal(t, uint64(1), uint64(chainID))
	})

	t.Run("adding a chain whose rpc serves another id fails", func(t *testing.T) {
		err := p.Request(ctx, nil, MethodAddChain, AddChainParams{ChainID: "0x89", RPCURLs: []string{goerliURL}})
		assert.Error(t, err)
	})

	t.Run("adding a chain needs an rpc url", func(t *testing.T) {
		err := p.Request(ctx, nil, MethodAddChain, AddChainParams{ChainID: "0x89"})
		assert.Error(t, err)
	})
}

func TestKeyedProviderSendTransaction(t *testing.T) {
	ctx := context.Background()
	eth, url := newChainServer(t, 11155111)
	p, addr := newKeyedProvider(t, url)

	to := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	var hash common.Hash
	err := p.Request(ctx, &hash, MethodSendTransaction, TransactionArgs{
		From:  addr,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(500)),
		Data:  hexutil.Bytes{0x08, 0x59, 0x8d, 0xf0},
	})
	require.NoError(t, err)

	require.Len(t, eth.sent, 1)
	tx := eth.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(90000), tx.Gas())
	assert.Equal(t, big.NewInt(500), tx.Value())
	assert.Equal(t, &to, tx.To())
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(11155111)), tx)
	require.NoError(t, err)
	assert.Equal(t, addr, sender)

	t.Run("refuses foreign accounts", func(t *testing.T) {
		err := p.Request(ctx, nil, MethodSendTransaction, TransactionArgs{From: common.HexToAddress("0x01"), To: &to})
		assert.Error(t, err)
	})
}

func TestSessionWithKeyedProvider(t *testing.T) {
	ctx := context.Background()
	_, mainURL := newChainServer(t, 1)
	_, sepoliaURL := newChainServer(t, 11155111)
	p, addr := newKeyedProvider(t, mainURL)

	s := NewSession(p, config.Network{ChainID: 11155111, RPCURL: sepoliaURL, Name: "sepolia"})
	require.NoError(t, s.Connect(ctx))

	state := s.State()
	assert.True(t, state.NetworkOK)
	assert.False(t, state.NetworkMismatch)
	assert.True(t, state.Account.EqualFold(persist.NewEthereumAddress(addr)))
}
