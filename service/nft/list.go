package nft

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc/ipfs"
)

// TokenLinker builds explorer and marketplace links for a token. *config.Config implements it.
type TokenLinker interface {
	TokenURLs(tokenID string) (explorer string, opensea string)
}

// Token is one live token as shown in the NFT list
type Token struct {
	TokenID       string                  `json:"tokenId"`
	Metadata      persist.TokenMetadata   `json:"metadata"`
	Owner         persist.EthereumAddress `json:"owner"`
	IsOwnedByUser bool                    `json:"isOwnedByUser"`
	ExplorerURL   string                  `json:"explorerUrl"`
	OpenseaURL    string                  `json:"openseaUrl,omitempty"`
}

// Lister enumerates every live token of the NFT contract
type Lister struct {
	scanner scanner
	links   TokenLinker
}

func NewLister(nft TokenReader, validator gateway.NetworkValidator, ipfsReader ipfs.Reader, concurrency int, links TokenLinker) *Lister {
	return &Lister{
		scanner: scanner{nft: nft, validator: validator, ipfsReader: ipfsReader, concurrency: concurrency},
		links:   links,
	}
}

// List returns every live token in id order, marking the ones owned by account. A token whose
// metadata cannot be read is listed with nil metadata.
func (l *Lister) List(ctx context.Context, account persist.EthereumAddress) ([]Token, error) {
	probes, err := l.scanner.scan(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Error("Network mismatch or error occurred while fetching NFTs")
		return nil, err
	}

	tokens := make([]Token, 0, len(probes))
	for _, p := range probes {
		if !p.exists {
			logger.For(ctx).Warnf("Token ID %d is invalid or does not exist.", p.tokenID)
			continue
		}
		if p.err != nil {
			logger.For(ctx).WithFields(logrus.Fields{"tokenId": p.tokenID}).WithError(p.err).Error("Error loading metadata")
		}

		owner := persist.NewEthereumAddress(p.owner)
		tokenID := strconv.FormatInt(p.tokenID, 10)
		token := Token{
			TokenID:       tokenID,
			Metadata:      p.metadata,
			Owner:         owner,
			IsOwnedByUser: account != "" && owner.EqualFold(account),
		}
		if l.links != nil {
			token.ExplorerURL, token.OpenseaURL = l.links.TokenURLs(tokenID)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}
