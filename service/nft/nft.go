package nft

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/util"
)

// TokenReader is the NFT contract surface used to enumerate tokens. *contracts.SPENCaller implements it.
type TokenReader interface {
	TotalSupply(opts *bind.CallOpts) (*big.Int, error)
	OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error)
	TokenURI(opts *bind.CallOpts, tokenId *big.Int) (string, error)
}

// MintConfigCaller is the NFT contract surface used to read the mint configuration.
// *contracts.SPENCaller implements it.
type MintConfigCaller interface {
	GetMintConfig(opts *bind.CallOpts) (struct {
		MintingEnabled      bool
		MintPrice           *big.Int
		PaymentTokenAddress common.Address
		IsFreeMint          bool
		PaymentTokenSymbol  string
	}, error)
}

// MintConfigReader reads the contract's mint configuration through the network guard
type MintConfigReader struct {
	nft       MintConfigCaller
	validator gateway.NetworkValidator
}

func NewMintConfigReader(nft MintConfigCaller, validator gateway.NetworkValidator) *MintConfigReader {
	return &MintConfigReader{nft: nft, validator: validator}
}

// Read returns the current mint configuration. isFreeMint is taken from the contract as is.
func (r *MintConfigReader) Read(ctx context.Context) gateway.Result[persist.MintConfig] {
	return gateway.Call(ctx, r.validator, "getMintConfig", func(ctx context.Context) (persist.MintConfig, error) {
		cfg, err := r.nft.GetMintConfig(&bind.CallOpts{Context: ctx})
		if err != nil {
			return persist.MintConfig{}, err
		}
		price := cfg.MintPrice
		if price == nil {
			price = new(big.Int)
		}
		return persist.MintConfig{
			MintingEnabled:      cfg.MintingEnabled,
			MintPrice:           util.FormatEther(price),
			MintPriceWei:        price,
			PaymentTokenAddress: persist.NewEthereumAddress(cfg.PaymentTokenAddress),
			IsFreeMint:          cfg.IsFreeMint,
			PaymentTokenSymbol:  cfg.PaymentTokenSymbol,
		}, nil
	})
}

// PriceLabel is the price line shown on a content card, or empty for free mints
func PriceLabel(cfg *persist.MintConfig) string {
	if cfg == nil || cfg.IsFreeMint {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", cfg.MintPrice, cfg.PaymentTokenSymbol))
}

// TotalSupply reads the number of minted tokens through the network guard
func TotalSupply(ctx context.Context, nft TokenReader, validator gateway.NetworkValidator) gateway.Result[*big.Int] {
	return gateway.Call(ctx, validator, "totalSupply", func(ctx context.Context) (*big.Int, error) {
		supply, err := nft.TotalSupply(&bind.CallOpts{Context: ctx})
		if err != nil {
			return nil, err
		}
		if supply == nil || supply.Sign() < 0 || !supply.IsInt64() {
			return nil, fmt.Errorf("unusable total supply %v", supply)
		}
		return supply, nil
	})
}
