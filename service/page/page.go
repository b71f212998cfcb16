package page

import (
	"context"

	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/wallet"
)

// WalletSession is the wallet session as the pages use it. *wallet.Session implements it.
type WalletSession interface {
	State() wallet.State
	Account() persist.EthereumAddress
	NetworkMismatch() bool
	ShouldReconnect() bool
	OnChange(fn func(wallet.State)) func()
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context)
	DismissNotice()
	ValidateNetwork(ctx context.Context) bool
}

// SessionView is the wallet part of every page
type SessionView struct {
	Account         persist.EthereumAddress `json:"account"`
	Connected       bool                    `json:"connected"`
	NetworkMismatch bool                    `json:"networkMismatch"`
	Notice          string                  `json:"notice,omitempty"`
}

func sessionView(s WalletSession) SessionView {
	state := s.State()
	return SessionView{
		Account:         state.Account,
		Connected:       state.Connected(),
		NetworkMismatch: state.NetworkMismatch,
		Notice:          state.Notice,
	}
}
