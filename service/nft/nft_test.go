package nft

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/wallet"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

type fakeToken struct {
	owner common.Address
	uri   string
}

type fakeNFT struct {
	mu        sync.Mutex
	supply    *big.Int
	supplyErr error
	tokens    map[int64]fakeToken
	ownerOfs  int
}

func (f *fakeNFT) TotalSupply(opts *bind.CallOpts) (*big.Int, error) {
	return f.supply, f.supplyErr
}

func (f *fakeNFT) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	f.mu.Lock()
	f.ownerOfs++
	f.mu.Unlock()
	tok, ok := f.tokens[tokenId.Int64()]
	if !ok {
		return common.Address{}, errors.New("execution reverted: ERC721: invalid token ID")
	}
	return tok.owner, nil
}

func (f *fakeNFT) TokenURI(opts *bind.CallOpts, tokenId *big.Int) (string, error) {
	tok, ok := f.tokens[tokenId.Int64()]
	if !ok {
		return "", errors.New("execution reverted")
	}
	return tok.uri, nil
}

type networkOK bool

func (n networkOK) ValidateNetwork(ctx context.Context) bool { return bool(n) }

// newFakeNFT mints tokens 0..n-1, token i carrying content id i+1, except burned ids
func newFakeNFT(n int64, burned ...int64) *fakeNFT {
	f := &fakeNFT{supply: big.NewInt(n), tokens: map[int64]fakeToken{}}
	for i := int64(0); i < n; i++ {
		f.tokens[i] = fakeToken{owner: alice, uri: fmt.Sprintf(`{"name":"Token %d","contentId":%d}`, i, i+1)}
	}
	for _, b := range burned {
		delete(f.tokens, b)
	}
	return f
}

func TestMintedSetTrackerScan(t *testing.T) {
	ctx := context.Background()

	t.Run("collects content ids of live tokens", func(t *testing.T) {
		f := newFakeNFT(4)
		minted := NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx)
		assert.Equal(t, persist.NewContentSet("1", "2", "3", "4"), minted)
	})

	t.Run("burned tokens are skipped without failing", func(t *testing.T) {
		f := newFakeNFT(4, 2)
		minted := NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx)
		assert.Equal(t, persist.NewContentSet("1", "2", "4"), minted)
		assert.False(t, minted.Has("3"))
		assert.Equal(t, 4, f.ownerOfs)
	})

	t.Run("malformed metadata is skipped per token", func(t *testing.T) {
		f := newFakeNFT(3)
		f.tokens[1] = fakeToken{owner: alice, uri: `{"name":`}
		minted := NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx)
		assert.Equal(t, persist.NewContentSet("1", "3"), minted)
	})

	t.Run("tokens without a content id contribute nothing", func(t *testing.T) {
		f := newFakeNFT(2)
		f.tokens[0] = fakeToken{owner: alice, uri: `{"name":"no content"}`}
		f.tokens[1] = fakeToken{owner: alice, uri: `{"contentId":{"type":"BigNumber","hex":"0x07"}}`}
		minted := NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx)
		assert.Equal(t, persist.NewContentSet("7"), minted)
	})

	t.Run("unreadable supply yields an empty set", func(t *testing.T) {
		f := newFakeNFT(2)
		f.supplyErr = errors.New("boom")
		assert.Empty(t, NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx))
	})

	t.Run("network mismatch yields an empty set", func(t *testing.T) {
		f := newFakeNFT(2)
		assert.Empty(t, NewMintedSetTracker(f, networkOK(false), nil, 1).Scan(ctx))
		assert.Equal(t, 0, f.ownerOfs)
	})

	t.Run("bounded concurrency finds the same set", func(t *testing.T) {
		f := newFakeNFT(50, 3, 17, 49)
		sequential := NewMintedSetTracker(f, networkOK(true), nil, 1).Scan(ctx)
		concurrent := NewMintedSetTracker(f, networkOK(true), nil, 8).Scan(ctx)
		assert.Equal(t, sequential, concurrent)
		assert.Len(t, concurrent, 47)
	})

	t.Run("zero supply", func(t *testing.T) {
		assert.Empty(t, NewMintedSetTracker(newFakeNFT(0), networkOK(true), nil, 1).Scan(ctx))
	})

	t.Run("oversized supply yields an empty set", func(t *testing.T) {
		assert := assert.New(t)
		f := newFakeNFT(2)
		f.supply = big.NewInt(1 << 50)

		for _, concurrency := range []int{1, 8} {
			var minted persist.ContentSet
			assert.NotPanics(func() {
				minted = NewMintedSetTracker(f, networkOK(true), nil, concurrency).Scan(ctx)
			})
			assert.Empty(minted)
		}
		assert.Equal(0, f.ownerOfs)
	})
}

type linker struct{}

func (linker) TokenURLs(tokenID string) (string, string) {
	return "https://explorer/" + tokenID, "https://opensea/" + tokenID
}

func TestListerList(t *testing.T) {
	ctx := context.Background()
	f := newFakeNFT(3, 1)
	f.tokens[2] = fakeToken{owner: bob, uri: "not json"}

	tokens, err := NewLister(f, networkOK(true), nil, 2, linker{}).List(ctx, persist.EthereumAddress("0x00000000000000000000000000000000000000A1"))
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	assert.Equal(t, "0", tokens[0].TokenID)
	assert.True(t, tokens[0].IsOwnedByUser)
	assert.Equal(t, "Token 0", tokens[0].Metadata["name"])
	assert.Equal(t, "https://explorer/0", tokens[0].ExplorerURL)
	assert.Equal(t, "https://opensea/0", tokens[0].OpenseaURL)

	assert.Equal(t, "2", tokens[1].TokenID)
	assert.False(t, tokens[1].IsOwnedByUser)
	assert.Nil(t, tokens[1].Metadata)

	t.Run("network mismatch lists nothing", func(t *testing.T) {
		tokens, err := NewLister(f, networkOK(false), nil, 1, linker{}).List(ctx, "")
		assert.Error(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("oversized supply fails the listing", func(t *testing.T) {
		assert := assert.New(t)
		huge := newFakeNFT(1)
		huge.supply = big.NewInt(MaxScanSupply + 1)

		tokens, err := NewLister(huge, networkOK(true), nil, 1, linker{}).List(ctx, "")
		assert.ErrorIs(err, ErrSupplyTooLarge)
		assert.Empty(tokens)
		assert.Equal(0, huge.ownerOfs)
	})
}

type fakeMintConfig struct {
	enabled bool
	price   *big.Int
	token   common.Address
	free    bool
	symbol  string
}

func (f fakeMintConfig) GetMintConfig(opts *bind.CallOpts) (struct {
	MintingEnabled      bool
	MintPrice           *big.Int
	PaymentTokenAddress common.Address
	IsFreeMint          bool
	PaymentTokenSymbol  string
}, error) {
	var out struct {
		MintingEnabled      bool
		MintPrice           *big.Int
		PaymentTokenAddress common.Address
		IsFreeMint          bool
		PaymentTokenSymbol  string
	}
	out.MintingEnabled = f.enabled
	out.MintPrice = f.price
	out.PaymentTokenAddress = f.token
	out.IsFreeMint = f.free
	out.PaymentTokenSymbol = f.symbol
	return out, nil
}

func TestMintConfigReader(t *testing.T) {
	ctx := context.Background()
	price, _ := new(big.Int).SetString("50000000000000000", 10)

	res := NewMintConfigReader(fakeMintConfig{enabled: true, price: price, symbol: "ETH"}, networkOK(true)).Read(ctx)
	require.True(t, res.OK())
	cfg := res.Value()
	assert.True(t, cfg.MintingEnabled)
	assert.Equal(t, "0.05", cfg.MintPrice)
	assert.Equal(t, price, cfg.MintPriceWei)
	assert.Equal(t, persist.ZeroAddress, cfg.PaymentTokenAddress)
	assert.Equal(t, "0.05 ETH", PriceLabel(&cfg))

	t.Run("free mint flag is trusted as reported", func(t *testing.T) {
		res := NewMintConfigReader(fakeMintConfig{price: price, free: true}, networkOK(true)).Read(ctx)
		cfg := res.Value()
		assert.True(t, cfg.IsFreeMint)
		assert.Equal(t, "", PriceLabel(&cfg))
	})

	t.Run("network mismatch fails", func(t *testing.T) {
		res := NewMintConfigReader(fakeMintConfig{}, networkOK(false)).Read(ctx)
		assert.True(t, res.NetworkInvalid())
	})
}

type fakeSession struct {
	account persist.EthereumAddress
	ok      bool
}

func (s fakeSession) ValidateNetwork(ctx context.Context) bool { return s.ok }
func (s fakeSession) Account() persist.EthereumAddress         { return s.account }

type fakeTransactor struct {
	sent    []wallet.TransactionArgs
	sendErr error
	mineErr error
}

func (f *fakeTransactor) SendTransaction(ctx context.Context, args wallet.TransactionArgs) (common.Hash, error) {
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sent = append(f.sent, args)
	return common.HexToHash("0xbeef"), nil
}

func (f *fakeTransactor) WaitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
}

func TestBurner(t *testing.T) {
	ctx := context.Background()
	nftAddress := common.HexToAddress("0x00000000000000000000000000000000000000ff")

	t.Run("packs burn and waits for it", func(t *testing.T) {
		tx := &fakeTransactor{}
		hash, err := NewBurner(nftAddress, fakeSession{account: persist.NewEthereumAddress(alice), ok: true}, tx, time.Millisecond).Burn(ctx, persist.TokenID("a"))
		require.NoError(t, err)
		assert.Equal(t, common.HexToHash("0xbeef"), hash)

		require.Len(t, tx.sent, 1)
		assert.Equal(t, alice, tx.sent[0].From)
		assert.Equal(t, &nftAddress, tx.sent[0].To)

		parsed, err := contracts.SPENMetaData.GetAbi()
		require.NoError(t, err)
		want, err := parsed.Pack("burn", big.NewInt(10))
		require.NoError(t, err)
		assert.Equal(t, want, []byte(tx.sent[0].Data))
	})

	t.Run("requires a connected wallet", func(t *testing.T) {
		_, err := NewBurner(nftAddress, fakeSession{ok: true}, &fakeTransactor{}, time.Millisecond).Burn(ctx, persist.TokenID("1"))
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("wrong network sends nothing", func(t *testing.T) {
		tx := &fakeTransactor{}
		_, err := NewBurner(nftAddress, fakeSession{account: persist.NewEthereumAddress(alice)}, tx, time.Millisecond).Burn(ctx, persist.TokenID("1"))
		assert.Error(t, err)
		assert.Empty(t, tx.sent)
	})

	t.Run("revert is returned", func(t *testing.T) {
		tx := &fakeTransactor{mineErr: wallet.ErrReceiptFailed}
		_, err := NewBurner(nftAddress, fakeSession{account: persist.NewEthereumAddress(alice), ok: true}, tx, time.Millisecond).Burn(ctx, persist.TokenID("1"))
		assert.ErrorIs(t, err, wallet.ErrReceiptFailed)
	})
}
