package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/superpiccell/spen-minter/service/eligibility"
	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/mint"
	"github.com/superpiccell/spen-minter/service/nft"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/wallet"
)

// Button labels of a content card
const (
	ButtonMint   = "Mint NFT"
	ButtonMinted = "Already Minted"
)

// ErrContentNotFound is returned when minting an id that is not in the loaded content list
var ErrContentNotFound = errors.New("content not found")

type ContentSource interface {
	Contents(ctx context.Context) ([]persist.ContentItem, error)
}

type MintConfigSource interface {
	Read(ctx context.Context) gateway.Result[persist.MintConfig]
}

type ContractProtection interface {
	ContractProtected(ctx context.Context) gateway.Result[bool]
}

type MintedScanner interface {
	Scan(ctx context.Context) persist.ContentSet
}

type Minter interface {
	Mint(ctx context.Context, item persist.ContentItem, cfg *persist.MintConfig) (mint.Status, error)
}

// MintPageDeps are the collaborators of a MintPage
type MintPageDeps struct {
	Session    WalletSession
	Contents   ContentSource
	MintConfig MintConfigSource
	Protection ContractProtection
	Minted     MintedScanner
	Supply     nft.TokenReader
	Reconciler *eligibility.Reconciler
	Minter     Minter
}

// ItemView is one content card
type ItemView struct {
	ID          persist.ContentID   `json:"id"`
	Fields      []persist.Attribute `json:"fields"`
	Image       string              `json:"image,omitempty"`
	Price       string              `json:"price,omitempty"`
	ButtonLabel string              `json:"buttonLabel"`
	Loading     bool                `json:"loading"`
	Disabled    bool                `json:"disabled"`
}

// MintPageView is everything the mint page renders
type MintPageView struct {
	Session    SessionView         `json:"session"`
	Loading    bool                `json:"loading"`
	Items      []ItemView          `json:"items"`
	MintConfig *persist.MintConfig `json:"mintConfig"`
	NFTCount   int64               `json:"nftCount"`
	Status     *mint.Status        `json:"status,omitempty"`
}

// MintPage holds the state of the mint page and keeps it in step with the wallet session
type MintPage struct {
	MintPageDeps

	mu              sync.RWMutex
	contentsLoading bool
	items           []persist.ContentItem
	config          *persist.MintConfig
	nftCount        int64
	status          *mint.Status
	lastAccount     persist.EthereumAddress
}

func NewMintPage(deps MintPageDeps) *MintPage {
	return &MintPage{MintPageDeps: deps}
}

// Start reconnects the wallet unless the user disconnected it, subscribes to session changes and
// loads the page. The returned func unsubscribes.
func (p *MintPage) Start(ctx context.Context) func() {
	if !p.Session.State().Connected() {
		p.reconnect(ctx)
	}

	unsubscribe := p.Session.OnChange(func(state wallet.State) {
		p.onSessionChange(ctx, state)
	})

	if err := p.Load(ctx); err != nil {
		logger.For(ctx).WithError(err).Error("failed to load mint page")
	}

	state := p.Session.State()
	p.mu.Lock()
	p.lastAccount = state.Account
	p.mu.Unlock()
	p.syncMismatch(ctx, state)
	if state.Connected() {
		p.RefreshCount(ctx)
	}

	return unsubscribe
}

// Load fetches the contents, the mint configuration and, when those checks are on, the contract
// protection and the minted set. Failures are logged and leave the defaults in place.
func (p *MintPage) Load(ctx context.Context) error {
	p.mu.Lock()
	p.contentsLoading = true
	p.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		p.loadContents(ctx)
		return nil
	})
	p.goContractReads(ctx, &g)
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// goContractReads schedules the guarded reads of contract state: the mint configuration and, when
// those checks are on, the contract protection and the minted set
func (p *MintPage) goContractReads(ctx context.Context, g *errgroup.Group) {
	features := p.Reconciler.Features()

	g.Go(func() error {
		p.RefreshMintConfig(ctx)
		return nil
	})
	if features.CheckCoreProtectedMode {
		g.Go(func() error {
			p.RefreshProtection(ctx)
			return nil
		})
	}
	if features.CheckMintedContent {
		g.Go(func() error {
			p.RefreshMinted(ctx)
			return nil
		})
	}
}

// ReloadContractState re-reads every piece of contract state, then the NFT count. Reads that failed
// while the wallet was missing or on the wrong chain are recovered this way.
func (p *MintPage) ReloadContractState(ctx context.Context) {
	var g errgroup.Group
	p.goContractReads(ctx, &g)
	_ = g.Wait()
	p.RefreshCount(ctx)
}

func (p *MintPage) loadContents(ctx context.Context) {
	items, err := p.Contents.Contents(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Error("Failed to fetch contents")
	}

	p.mu.Lock()
	if err == nil {
		p.items = items
	}
	p.contentsLoading = false
	items = append([]persist.ContentItem(nil), p.items...)
	p.mu.Unlock()

	p.Reconciler.SetContents(ctx, items)
}

// RefreshMintConfig re-reads the mint configuration. The previous one is kept if the read fails.
func (p *MintPage) RefreshMintConfig(ctx context.Context) {
	res := p.MintConfig.Read(ctx)
	if !res.OK() {
		logger.For(ctx).WithError(res.Err()).Error("Network mismatch or error occurred while fetching mint configuration. Please switch to the correct network.")
		return
	}
	cfg := res.Value()
	p.mu.Lock()
	p.config = &cfg
	p.mu.Unlock()
}

// RefreshProtection re-reads whether the registry is in protected mode. A failed read counts as not protected.
func (p *MintPage) RefreshProtection(ctx context.Context) {
	if p.Protection == nil {
		return
	}
	res := p.Protection.ContractProtected(ctx)
	if !res.OK() {
		logger.For(ctx).WithError(res.Err()).Error("failed to read contract protection")
	}
	p.Reconciler.SetContractProtected(ctx, res.ValueOr(false))
}

// RefreshMinted rescans the minted set
func (p *MintPage) RefreshMinted(ctx context.Context) {
	if p.Minted == nil {
		return
	}
	p.Reconciler.SetMinted(ctx, p.Minted.Scan(ctx))
}

// RefreshCount re-reads the total supply shown as the NFT count
func (p *MintPage) RefreshCount(ctx context.Context) {
	if p.Supply == nil {
		return
	}
	res := nft.TotalSupply(ctx, p.Supply, p.Session)
	if !res.OK() {
		logger.For(ctx).Error("Network mismatch or error occurred while loading NFT count. Please switch to the correct network.")
		return
	}
	p.mu.Lock()
	p.nftCount = res.Value().Int64()
	p.mu.Unlock()
}

func (p *MintPage) onSessionChange(ctx context.Context, state wallet.State) {
	recovered := p.syncMismatch(ctx, state)

	p.mu.Lock()
	changed := state.Account != p.lastAccount
	p.lastAccount = state.Account
	p.mu.Unlock()

	if changed {
		logger.For(ctx).WithFields(logrus.Fields{"account": state.Account}).Debug("wallet account changed")
	}
	if !changed && !recovered {
		return
	}
	if !state.Connected() {
		p.reconnect(ctx)
		return
	}
	if recovered {
		logger.For(ctx).Info("network recovered, reloading contract state")
	}
	p.ReloadContractState(ctx)
}

// syncMismatch pushes the session's mismatch flag into the reconciler and reports whether the
// network just went from mismatched to valid
func (p *MintPage) syncMismatch(ctx context.Context, state wallet.State) bool {
	wasMismatched := p.Reconciler.Inputs().NetworkMismatch
	if wasMismatched == state.NetworkMismatch {
		return false
	}
	p.Reconciler.SetNetworkMismatch(ctx, state.NetworkMismatch)
	return wasMismatched && !state.NetworkMismatch
}

// reconnect connects the wallet again unless the user disconnected it on purpose
func (p *MintPage) reconnect(ctx context.Context) {
	if !p.Session.ShouldReconnect() {
		return
	}
	if err := p.Session.Connect(ctx); err != nil {
		logger.For(ctx).WithError(err).Warn("could not reconnect wallet")
	}
}

// Connect asks the wallet for an account
func (p *MintPage) Connect(ctx context.Context) error {
	return p.Session.Connect(ctx)
}

// Disconnect forgets the account and stops reconnecting on its own
func (p *MintPage) Disconnect(ctx context.Context) {
	p.Session.Disconnect(ctx)
}

// DismissNotice hides the provider missing notice
func (p *MintPage) DismissNotice() {
	p.Session.DismissNotice()
}

// Mint mints the content item with the given id and opens the status dialog when there is
// something to show
func (p *MintPage) Mint(ctx context.Context, id persist.ContentID) (mint.Status, error) {
	p.mu.RLock()
	var (
		item  persist.ContentItem
		found bool
	)
	for _, it := range p.items {
		if it.ID == id {
			item, found = it, true
			break
		}
	}
	var cfg *persist.MintConfig
	if p.config != nil {
		c := *p.config
		cfg = &c
	}
	p.mu.RUnlock()

	if !found {
		return mint.Status{}, fmt.Errorf("%w: %s", ErrContentNotFound, id)
	}

	status, err := p.Minter.Mint(ctx, item, cfg)

	p.mu.Lock()
	if status.Message != "" {
		s := status
		p.status = &s
	}
	if status.NFTCount != nil && status.NFTCount.IsInt64() {
		p.nftCount = status.NFTCount.Int64()
	}
	p.mu.Unlock()

	if status.Success {
		p.RefreshMintConfig(ctx)
	}
	return status, err
}

// AfterBurn refreshes what a burn changes
func (p *MintPage) AfterBurn(ctx context.Context) {
	if p.Reconciler.Features().CheckMintedContent {
		p.RefreshMinted(ctx)
	}
	p.RefreshCount(ctx)
}

// DismissStatus closes the status dialog and clears its message
func (p *MintPage) DismissStatus() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = nil
}

// View renders the page
func (p *MintPage) View(ctx context.Context) MintPageView {
	p.mu.RLock()
	items := append([]persist.ContentItem(nil), p.items...)
	view := MintPageView{
		Loading:  p.contentsLoading,
		NFTCount: p.nftCount,
	}
	if p.config != nil {
		c := *p.config
		view.MintConfig = &c
	}
	if p.status != nil {
		s := *p.status
		view.Status = &s
	}
	p.mu.RUnlock()

	view.Session = sessionView(p.Session)

	inputs := p.Reconciler.Inputs()
	price := nft.PriceLabel(view.MintConfig)

	view.Items = make([]ItemView, 0, len(items))
	for _, item := range items {
		fields, image, err := nft.DisplayFields(item.Content)
		if err != nil {
			logger.For(ctx).WithError(err).WithFields(logrus.Fields{"contentId": item.ID}).Error("failed to read content fields")
		}

		iv := ItemView{
			ID:       item.ID,
			Fields:   fields,
			Image:    image,
			Price:    price,
			Disabled: p.Reconciler.IsDisabled(item.ID),
		}
		switch {
		case inputs.LoadingID == item.ID:
			iv.Loading = true
		case inputs.Minted.Has(item.ID):
			iv.ButtonLabel = ButtonMinted
		default:
			iv.ButtonLabel = ButtonMint
		}
		view.Items = append(view.Items, iv)
	}
	return view
}
