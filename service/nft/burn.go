package nft

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/wallet"
)

// ErrNotConnected is returned for writes attempted without a connected wallet
var ErrNotConnected = errors.New("wallet not connected")

// Transactor submits transactions through the wallet and waits for them. *wallet.Backend implements it.
type Transactor interface {
	SendTransaction(ctx context.Context, args wallet.TransactionArgs) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*types.Receipt, error)
}

// AccountSession is the part of the wallet session a write needs. *wallet.Session implements it.
type AccountSession interface {
	gateway.NetworkValidator
	Account() persist.EthereumAddress
}

// Burner burns tokens of the NFT contract
type Burner struct {
	nftAddress   common.Address
	session      AccountSession
	transactor   Transactor
	pollInterval time.Duration
}

func NewBurner(nftAddress common.Address, session AccountSession, transactor Transactor, pollInterval time.Duration) *Burner {
	return &Burner{nftAddress: nftAddress, session: session, transactor: transactor, pollInterval: pollInterval}
}

// Burn sends burn(tokenID) from the connected account and waits for it to be mined
func (b *Burner) Burn(ctx context.Context, tokenID persist.TokenID) (common.Hash, error) {
	account := b.session.Account()
	if account == "" {
		return common.Hash{}, ErrNotConnected
	}

	ctx = logger.NewContextWithFields(ctx, logrus.Fields{"tokenId": tokenID.Base10String()})

	parsed, err := contracts.SPENMetaData.GetAbi()
	if err != nil {
		return common.Hash{}, err
	}
	data, err := parsed.Pack("burn", tokenID.BigInt())
	if err != nil {
		return common.Hash{}, err
	}

	res := gateway.Call(ctx, b.session, "burn", func(ctx context.Context) (common.Hash, error) {
		hash, err := b.transactor.SendTransaction(ctx, wallet.TransactionArgs{
			From: account.Address(),
			To:   &b.nftAddress,
			Data: data,
		})
		if err != nil {
			return common.Hash{}, err
		}
		if _, err := b.transactor.WaitMined(ctx, hash, b.pollInterval); err != nil {
			return hash, err
		}
		return hash, nil
	})
	if !res.OK() {
		return common.Hash{}, res.Err()
	}

	logger.For(ctx).Infof("NFT with token ID %s has been burned", tokenID.Base10String())
	return res.Value(), nil
}
