package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc"
)

// ErrProviderMissing is returned by Connect when no wallet provider is configured
var ErrProviderMissing = errors.New("wallet provider missing")

// ProviderMissingNotice is shown to the user when there is no wallet to connect to
const ProviderMissingNotice = "MetaMask is not installed. Please install MetaMask to use this feature."

// State is a snapshot of the session
type State struct {
	Account         persist.EthereumAddress `json:"account"`
	NetworkOK       bool                    `json:"networkOk"`
	NetworkMismatch bool                    `json:"networkMismatch"`
	Notice          string                  `json:"notice,omitempty"`
}

// Connected reports whether an account is connected
func (s State) Connected() bool {
	return s.Account != ""
}

// Session owns the connection to the wallet provider and tracks whether the wallet is on the
// expected network. A process has one Session and hands it to every component that needs it.
type Session struct {
	provider Provider
	network  config.Network

	mu              sync.RWMutex
	account         persist.EthereumAddress
	networkOK       bool
	networkMismatch bool
	notice          string
	shouldReconnect bool

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int
}

// NewSession returns a disconnected session. provider may be nil when no wallet is available.
func NewSession(provider Provider, network config.Network) *Session {
	return &Session{
		provider:        provider,
		network:         network,
		shouldReconnect: true,
		listeners:       make(map[int]func(State)),
	}
}

// Provider returns the wallet provider, or nil
func (s *Session) Provider() Provider {
	return s.provider
}

// Network returns the network the session expects to be on
func (s *Session) Network() config.Network {
	return s.network
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Account:         s.account,
		NetworkOK:       s.networkOK,
		NetworkMismatch: s.networkMismatch,
		Notice:          s.notice,
	}
}

// Account returns the connected account, or the empty address
func (s *Session) Account() persist.EthereumAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// NetworkMismatch reports whether the last network check failed
func (s *Session) NetworkMismatch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkMismatch
}

// ShouldReconnect is false once the user has explicitly disconnected
func (s *Session) ShouldReconnect() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shouldReconnect
}

// OnChange registers fn to be called after every state change. The returned func unregisters it.
func (s *Session) OnChange(fn func(State)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

// Connect requests account access. Without a provider it raises the provider missing notice and
// returns ErrProviderMissing. A rejected or failed request is logged and leaves the session
// disconnected.
func (s *Session) Connect(ctx context.Context) error {
	if s.provider == nil {
		logger.For(ctx).Warn("no wallet provider available")
		s.update(func() {
			s.notice = ProviderMissingNotice
		})
		return ErrProviderMissing
	}

	var accounts []common.Address
	if err := s.provider.Request(ctx, &accounts, MethodRequestAccounts); err != nil {
		logger.For(ctx).WithError(err).Error("Failed to connect wallet")
		return nil
	}
	if len(accounts) == 0 {
		logger.For(ctx).Error("Failed to connect wallet: provider returned no accounts")
		return nil
	}

	account := persist.NewEthereumAddress(accounts[0])
	s.update(func() {
		if s.account != account {
			s.networkOK = false
		}
		s.account = account
		s.shouldReconnect = true
	})

	logger.For(ctx).WithFields(logrus.Fields{"account": account}).Info("wallet connected")

	s.ValidateNetwork(ctx)
	return nil
}

// Disconnect forgets the account locally. Wallet-side permissions cannot be revoked by a dApp.
func (s *Session) Disconnect(ctx context.Context) {
	s.update(func() {
		s.account = ""
		s.networkOK = false
		s.networkMismatch = false
		s.shouldReconnect = false
	})
	logger.For(ctx).Info("wallet disconnected")
}

// DismissNotice clears the provider missing notice
func (s *Session) DismissNotice() {
	s.update(func() {
		s.notice = ""
	})
}

// ValidateNetwork checks that the wallet is on the expected chain, asking it to switch and, if
// it does not know the chain, to add it. Any unexpected failure marks the network mismatched.
func (s *Session) ValidateNetwork(ctx context.Context) bool {
	if s.provider == nil {
		return false
	}

	ok, err := s.switchToExpectedChain(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Error("Failed to check or switch network")
	}

	s.update(func() {
		s.networkOK = ok
		s.networkMismatch = !ok
	})
	return ok
}

func (s *Session) switchToExpectedChain(ctx context.Context) (bool, error) {
	var chainID hexutil.Uint64
	if err := s.provider.Request(ctx, &chainID, MethodChainID); err != nil {
		return false, err
	}
	if uint64(chainID) == s.network.ChainID {
		return true, nil
	}

	logger.For(ctx).Infof("wallet is on chain %d, expected %d; requesting switch", uint64(chainID), s.network.ChainID)

	err := s.provider.Request(ctx, nil, MethodSwitchChain, SwitchChainParams{ChainID: s.network.ChainIDHex()})
	if err == nil {
		return true, nil
	}

	if !rpc.IsUnrecognizedChain(err) {
		logger.For(ctx).WithError(err).Error("Failed to switch network")
		return false, nil
	}

	err = s.provider.Request(ctx, nil, MethodAddChain, AddChainParams{
		ChainID:   s.network.ChainIDHex(),
		ChainName: s.network.DisplayName(),
		RPCURLs:   []string{s.network.RPCURL},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) update(fn func()) {
	s.mu.Lock()
	before := State{Account: s.account, NetworkOK: s.networkOK, NetworkMismatch: s.networkMismatch, Notice: s.notice}
	fn()
	after := State{Account: s.account, NetworkOK: s.networkOK, NetworkMismatch: s.networkMismatch, Notice: s.notice}
	s.mu.Unlock()

	if before == after {
		return
	}

	s.listenersMu.Lock()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(after)
	}
}
