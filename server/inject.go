package server

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/catalog"
	"github.com/superpiccell/spen-minter/service/eligibility"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/mint"
	"github.com/superpiccell/spen-minter/service/nft"
	"github.com/superpiccell/spen-minter/service/page"
	"github.com/superpiccell/spen-minter/service/rpc"
	"github.com/superpiccell/spen-minter/service/rpc/ipfs"
	"github.com/superpiccell/spen-minter/service/wallet"
)

// App is every component of the minter wired together for one wallet session
type App struct {
	Config   *config.Config
	Provider wallet.Provider
	Session  *wallet.Session

	NFT  *contracts.SPENCaller
	Core *contracts.SuperPiccellCoreCaller

	Catalog    *catalog.ContentCatalog
	Protection *catalog.ProtectionOracle
	MintConfig *nft.MintConfigReader
	Minted     *nft.MintedSetTracker
	Lister     *nft.Lister
	Reconciler *eligibility.Reconciler
	Submitter  *mint.Submitter
	Burner     *nft.Burner

	MintPage *page.MintPage
	NFTList  *page.NFTList

	closers []func()
}

// NewApp dials the wallet provider and the chains and builds every component. Contract reads go
// through the wallet like they would in a browser; without a wallet the NFT contract is read
// from NFT_RPC_URL and writes are unavailable.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	provider, closeProvider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeProvider != nil {
		app.closers = append(app.closers, closeProvider)
	}
	app.Provider = provider
	app.Session = wallet.NewSession(provider, cfg.Network)

	var (
		nftBackend bind.ContractCaller
		backend    *wallet.Backend
	)
	if provider != nil {
		backend = wallet.NewBackend(provider)
		nftBackend = backend
	} else {
		client, err := rpc.NewEthClient(ctx, cfg.Network.RPCURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to dial %s: %w", cfg.Network.RPCURL, err)
		}
		app.closers = append(app.closers, client.Close)
		nftBackend = client
	}

	coreBackend := nftBackend
	if cfg.CoreRPCURL != "" {
		var client *ethclient.Client
		client, err = rpc.NewEthClient(ctx, cfg.CoreRPCURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to dial core registry at %s: %w", cfg.CoreRPCURL, err)
		}
		app.closers = append(app.closers, client.Close)
		coreBackend = client
	}

	if app.NFT, err = contracts.NewSPENCaller(cfg.NFTContractAddress, nftBackend); err != nil {
		app.Close()
		return nil, err
	}
	if app.Core, err = contracts.NewSuperPiccellCoreCaller(cfg.CoreContractAddress, coreBackend); err != nil {
		app.Close()
		return nil, err
	}

	ipfsReader := ipfs.NewReader(cfg.IPFSURL)

	app.Catalog = catalog.NewContentCatalog(app.Core, cfg.ContentType)
	app.Protection = catalog.NewProtectionOracle(app.Core, app.Session)
	app.MintConfig = nft.NewMintConfigReader(app.NFT, app.Session)
	app.Minted = nft.NewMintedSetTracker(app.NFT, app.Session, ipfsReader, cfg.ScanConcurrency)
	app.Lister = nft.NewLister(app.NFT, app.Session, ipfsReader, cfg.ScanConcurrency, cfg)
	app.Reconciler = eligibility.NewReconciler(cfg.Features, app.Protection)

	var transactor nft.Transactor = noWallet{}
	if backend != nil {
		transactor = backend
	}
	app.Submitter = mint.NewSubmitter(cfg.NFTContractAddress, app.Session, app.Reconciler, app.Protection, transactor, app.NFT, cfg, cfg.ReceiptPollInterval)
	app.Burner = nft.NewBurner(cfg.NFTContractAddress, app.Session, transactor, cfg.ReceiptPollInterval)

	app.MintPage = page.NewMintPage(page.MintPageDeps{
		Session:    app.Session,
		Contents:   app.Catalog,
		MintConfig: app.MintConfig,
		Protection: app.Protection,
		Minted:     app.Minted,
		Supply:     app.NFT,
		Reconciler: app.Reconciler,
		Minter:     app.Submitter,
	})
	app.NFTList = page.NewNFTList(app.Session, app.Lister)

	return app, nil
}

// Close releases the wallet provider and chain connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newProvider(ctx context.Context, cfg *config.Config) (wallet.Provider, func(), error) {
	switch {
	case cfg.WalletPrivateKey != "":
		p, err := wallet.NewKeyedProvider(ctx, cfg.WalletPrivateKey, cfg.Network.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up keyed wallet: %w", err)
		}
		logger.For(ctx).Infof("using built-in wallet %s", p.Address().Hex())
		return p, p.Close, nil
	case cfg.WalletRPCURL != "":
		p, err := wallet.NewRPCProvider(ctx, cfg.WalletRPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to wallet at %s: %w", cfg.WalletRPCURL, err)
		}
		logger.For(ctx).Infof("using wallet at %s", cfg.WalletRPCURL)
		return p, p.Close, nil
	}
	return nil, nil, nil
}

// noWallet refuses every write when no wallet provider is configured
type noWallet struct{}

func (noWallet) SendTransaction(ctx context.Context, args wallet.TransactionArgs) (common.Hash, error) {
	return common.Hash{}, wallet.ErrProviderMissing
}

func (noWallet) WaitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	return nil, wallet.ErrProviderMissing
}
