package page

import (
	"context"

	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/nft"
	"github.com/superpiccell/spen-minter/service/persist"
)

type TokenLister interface {
	List(ctx context.Context, account persist.EthereumAddress) ([]nft.Token, error)
}

// NFTListView is everything the NFT list page renders
type NFTListView struct {
	Session SessionView `json:"session"`
	Tokens  []nft.Token `json:"tokens"`
}

// NFTList lists every live token, marking the ones the connected account owns
type NFTList struct {
	session WalletSession
	lister  TokenLister
}

func NewNFTList(session WalletSession, lister TokenLister) *NFTList {
	return &NFTList{session: session, lister: lister}
}

// Load connects the wallet if needed and lists the tokens. Nothing is listed without an account
// or on the wrong network; listing failures are logged and yield an empty list.
func (l *NFTList) Load(ctx context.Context) NFTListView {
	if l.session.Account() == "" {
		if err := l.session.Connect(ctx); err != nil {
			logger.For(ctx).WithError(err).Warn("could not connect wallet")
		}
	}

	view := NFTListView{Tokens: []nft.Token{}}

	account := l.session.Account()
	if account == "" {
		view.Session = sessionView(l.session)
		return view
	}
	if l.session.NetworkMismatch() {
		logger.For(ctx).Error("Network mismatch. Cannot load NFTs.")
		view.Session = sessionView(l.session)
		return view
	}

	tokens, err := l.lister.List(ctx, account)
	if err != nil {
		logger.For(ctx).WithError(err).Error("Error fetching NFTs")
	} else {
		view.Tokens = tokens
	}
	view.Session = sessionView(l.session)
	return view
}
