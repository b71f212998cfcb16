package persist

import (
	"math/big"
)

// ContentItem is a mintable entry in the core registry. Content is an opaque JSON document.
type ContentItem struct {
	ID      ContentID `json:"id"`
	Content string    `json:"content"`
}

// MintConfig is the mint configuration reported by the NFT contract
type MintConfig struct {
	MintingEnabled      bool            `json:"mintingEnabled"`
	MintPrice           string          `json:"mintPrice"`
	MintPriceWei        *big.Int        `json:"-"`
	PaymentTokenAddress EthereumAddress `json:"paymentTokenAddress"`
	IsFreeMint          bool            `json:"isFreeMint"`
	PaymentTokenSymbol  string          `json:"paymentTokenSymbol"`
}

// PaysInEther reports whether the price is sent as transaction value rather than a token transfer
func (m MintConfig) PaysInEther() bool {
	return m.PaymentTokenAddress == "" || m.PaymentTokenAddress.EqualFold(ZeroAddress)
}

// Attribute is one trait in NFT metadata
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// NFTMetadata is the metadata document minted into a token
type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	ContentID   ContentID   `json:"contentId"`
}
