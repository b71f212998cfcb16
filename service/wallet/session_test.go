package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc"
)

type fakeWallet struct {
	mu          sync.Mutex
	accounts    []common.Address
	accountsErr error
	chainID     uint64
	chainErr    error
	switchErr   error
	addErr      error
	calls       []string
	added       []AddChainParams
}

func (f *fakeWallet) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)

	switch method {
	case MethodRequestAccounts:
		if f.accountsErr != nil {
			return f.accountsErr
		}
		return assign(result, f.accounts)
	case MethodChainID:
		if f.chainErr != nil {
			return f.chainErr
		}
		return assign(result, hexutil.Uint64(f.chainID))
	case MethodSwitchChain:
		if f.switchErr != nil {
			return f.switchErr
		}
		var p SwitchChainParams
		if err := decodeParam(params, 0, &p); err != nil {
			return err
		}
		f.chainID, _ = hexutil.DecodeUint64(p.ChainID)
		return nil
	case MethodAddChain:
		var p AddChainParams
		if err := decodeParam(params, 0, &p); err != nil {
			return err
		}
		f.added = append(f.added, p)
		if f.addErr != nil {
			return f.addErr
		}
		f.chainID, _ = hexutil.DecodeUint64(p.ChainID)
		return nil
	}
	return errors.New("unsupported method " + method)
}

func (f *fakeWallet) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

var (
	testAccount = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	mainnet     = config.Network{ChainID: 1, RPCURL: "https://rpc.example.org", Name: "mainnet"}
)

func TestSessionConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("without a provider raises the notice", func(t *testing.T) {
		s := NewSession(nil, mainnet)
		err := s.Connect(ctx)
		assert.ErrorIs(t, err, ErrProviderMissing)
		assert.Equal(t, ProviderMissingNotice, s.State().Notice)
		assert.False(t, s.State().Connected())

		s.DismissNotice()
		assert.Empty(t, s.State().Notice)
	})

	t.Run("stores the first account and validates the network", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{testAccount, common.HexToAddress("0x02")}, chainID: 1}
		s := NewSession(w, mainnet)

		require.NoError(t, s.Connect(ctx))

		state := s.State()
		assert.Equal(t, persist.NewEthereumAddress(testAccount), state.Account)
		assert.True(t, state.NetworkOK)
		assert.False(t, state.NetworkMismatch)
		assert.Equal(t, 1, w.called(MethodChainID))
	})

	t.Run("rejection is swallowed and leaves the session disconnected", func(t *testing.T) {
		w := &fakeWallet{accountsErr: rpc.WalletError{Code: rpc.CodeUserRejected, Message: "User rejected the request."}, chainID: 1}
		s := NewSession(w, mainnet)

		assert.NoError(t, s.Connect(ctx))
		assert.False(t, s.State().Connected())
		assert.Equal(t, 0, w.called(MethodChainID))
	})

	t.Run("empty account list", func(t *testing.T) {
		s := NewSession(&fakeWallet{chainID: 1}, mainnet)
		assert.NoError(t, s.Connect(ctx))
		assert.False(t, s.State().Connected())
	})
}

func TestSessionValidateNetwork(t *testing.T) {
	ctx := context.Background()

	t.Run("matching chain", func(t *testing.T) {
		w := &fakeWallet{chainID: 1}
		s := NewSession(w, mainnet)
		assert.True(t, s.ValidateNetwork(ctx))
		assert.Equal(t, 0, w.called(MethodSwitchChain))
	})

	t.Run("switches when the wallet is elsewhere", func(t *testing.T) {
		w := &fakeWallet{chainID: 5}
		s := NewSession(w, mainnet)
		assert.True(t, s.ValidateNetwork(ctx))
		assert.False(t, s.NetworkMismatch())
		assert.Equal(t, 0, w.called(MethodAddChain))
	})

	t.Run("adds the chain when the wallet does not know it", func(t *testing.T) {
		w := &fakeWallet{chainID: 5, switchErr: rpc.WalletError{Code: rpc.CodeUnrecognizedChain, Message: "Unrecognized chain ID"}}
		s := NewSession(w, mainnet)
		s.mu.Lock()
		s.networkMismatch = true
		s.mu.Unlock()

		assert.True(t, s.ValidateNetwork(ctx))
		assert.False(t, s.NetworkMismatch())
		require.Len(t, w.added, 1)
		assert.Equal(t, AddChainParams{ChainID: "0x1", ChainName: "Mainnet", RPCURLs: []string{"https://rpc.example.org"}}, w.added[0])
	})

	t.Run("other switch failures mark a mismatch", func(t *testing.T) {
		w := &fakeWallet{chainID: 5, switchErr: rpc.WalletError{Code: rpc.CodeUserRejected, Message: "User rejected the request."}}
		s := NewSession(w, mainnet)
		assert.False(t, s.ValidateNetwork(ctx))
		assert.True(t, s.NetworkMismatch())
		assert.Equal(t, 0, w.called(MethodAddChain))
	})

	t.Run("failed add marks a mismatch", func(t *testing.T) {
		w := &fakeWallet{chainID: 5, switchErr: rpc.WalletError{Code: rpc.CodeUnrecognizedChain}, addErr: errors.New("bad rpc url")}
		s := NewSession(w, mainnet)
		assert.False(t, s.ValidateNetwork(ctx))
		assert.True(t, s.NetworkMismatch())
	})

	t.Run("unreadable chain id fails closed", func(t *testing.T) {
		s := NewSession(&fakeWallet{chainErr: errors.New("disconnected")}, mainnet)
		assert.False(t, s.ValidateNetwork(ctx))
		assert.True(t, s.NetworkMismatch())
	})

	t.Run("no provider has no side effects", func(t *testing.T) {
		s := NewSession(nil, mainnet)
		assert.False(t, s.ValidateNetwork(ctx))
		assert.Equal(t, State{}, s.State())
	})
}

func TestSessionDisconnect(t *testing.T) {
	ctx := context.Background()
	w := &fakeWallet{accounts: []common.Address{testAccount}, chainID: 5, switchErr: errors.New("nope")}
	s := NewSession(w, mainnet)

	require.NoError(t, s.Connect(ctx))
	require.True(t, s.NetworkMismatch())

	s.Disconnect(ctx)
	assert.Equal(t, State{}, s.State())
	assert.False(t, s.ShouldReconnect())

	require.NoError(t, s.Connect(ctx))
	assert.True(t, s.ShouldReconnect())
}

func TestSessionOnChange(t *testing.T) {
	ctx := context.Background()
	s := NewSession(&fakeWallet{accounts: []common.Address{testAccount}, chainID: 1}, mainnet)

	var seen []State
	unsubscribe := s.OnChange(func(st State) { seen = append(seen, st) })

	require.NoError(t, s.Connect(ctx))
	require.NotEmpty(t, seen)
	last := seen[len(seen)-1]
	assert.True(t, last.Connected())
	assert.True(t, last.NetworkOK)

	// validating again with nothing changed does not notify
	n := len(seen)
	s.ValidateNetwork(ctx)
	assert.Len(t, seen, n)

	unsubscribe()
	s.Disconnect(ctx)
	assert.Len(t, seen, n)
}
