package nft

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc"
	"github.com/superpiccell/spen-minter/service/rpc/ipfs"
	"github.com/superpiccell/spen-minter/util"
)

// MaxScanSupply is the largest total supply a scan will walk. A larger supply fails the scan.
var MaxScanSupply int64 = 1 << 20

// ErrSupplyTooLarge is returned when the contract reports more tokens than a scan will walk
var ErrSupplyTooLarge = errors.New("total supply too large to scan")

// tokenProbe is what one pass over a token id learned
type tokenProbe struct {
	tokenID  int64
	exists   bool
	owner    common.Address
	metadata persist.TokenMetadata
	err      error
}

// scanner walks token ids 0..totalSupply-1, one at a time or with a bounded worker pool.
// Results are always returned in token id order.
type scanner struct {
	nft         TokenReader
	validator   gateway.NetworkValidator
	ipfsReader  ipfs.Reader
	concurrency int
}

func (s scanner) scan(ctx context.Context) ([]tokenProbe, error) {
	supply := TotalSupply(ctx, s.nft, s.validator)
	if !supply.OK() {
		return nil, supply.Err()
	}

	n := supply.Value().Int64()
	if n > MaxScanSupply {
		return nil, fmt.Errorf("%w: %d tokens, limit is %d", ErrSupplyTooLarge, n, MaxScanSupply)
	}

	if s.concurrency <= 1 {
		var probes []tokenProbe
		for i := int64(0); i < n; i++ {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			probes = append(probes, s.probe(ctx, i))
		}
		return probes, nil
	}

	var (
		mu      sync.Mutex
		results = make(map[int64]tokenProbe)
	)
	wp := workerpool.New(s.concurrency)
	for i := int64(0); i < n; i++ {
		i := i
		wp.Submit(func() {
			p := tokenProbe{tokenID: i, err: ctx.Err()}
			if p.err == nil {
				p = s.probe(ctx, i)
			}
			mu.Lock()
			results[i] = p
			mu.Unlock()
		})
	}
	wp.StopWait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	probes := make([]tokenProbe, 0, len(results))
	for i := int64(0); i < n; i++ {
		probes = append(probes, results[i])
	}
	return probes, nil
}

// probe checks that a token exists by asking for its owner, then reads its metadata
func (s scanner) probe(ctx context.Context, tokenID int64) tokenProbe {
	id := big.NewInt(tokenID)
	p := tokenProbe{tokenID: tokenID}

	owner, err := s.nft.OwnerOf(&bind.CallOpts{Context: ctx}, id)
	if err != nil {
		return p
	}
	p.exists = true
	p.owner = owner

	uri, err := s.nft.TokenURI(&bind.CallOpts{Context: ctx}, id)
	if err != nil {
		p.err = fmt.Errorf("failed to fetch token URI: %w", err)
		return p
	}

	md, err := rpc.GetMetadataFromURI(ctx, persist.TokenURI(uri), s.ipfsReader)
	if err != nil {
		p.err = fmt.Errorf("%w: token %d: %s", ErrMetadataParse, tokenID, err)
		return p
	}
	p.metadata = md
	return p
}

// MintedSetTracker finds the content ids that live tokens were minted from
type MintedSetTracker struct {
	scanner scanner
}

// NewMintedSetTracker returns a tracker scanning with the given concurrency. A concurrency of 1
// scans strictly sequentially.
func NewMintedSetTracker(nft TokenReader, validator gateway.NetworkValidator, ipfsReader ipfs.Reader, concurrency int) *MintedSetTracker {
	return &MintedSetTracker{scanner: scanner{nft: nft, validator: validator, ipfsReader: ipfsReader, concurrency: concurrency}}
}

// Scan enumerates every token and collects the content ids in their metadata. Burned ids are
// skipped and unreadable metadata is logged per token; neither stops the scan. If the supply
// cannot be read the set is empty.
func (t *MintedSetTracker) Scan(ctx context.Context) persist.ContentSet {
	defer util.Track(ctx, "minted set scan", time.Now())

	minted := persist.NewContentSet()

	probes, err := t.scanner.scan(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Error("Network mismatch or error occurred while fetching minted contents")
		return minted
	}

	for _, p := range probes {
		log := logger.For(ctx).WithFields(logrus.Fields{"tokenId": p.tokenID})
		if !p.exists {
			log.Warnf("Token ID %d is invalid or does not exist.", p.tokenID)
			continue
		}
		if p.err != nil {
			log.WithError(p.err).Error("Error fetching token URI")
			continue
		}

		raw, ok := p.metadata["contentId"]
		if !ok || raw == nil {
			continue
		}
		id, err := persist.ParseContentID(raw)
		if err != nil {
			log.WithError(err).Error("Error reading content id from token metadata")
			continue
		}
		minted.Add(id)
	}

	logger.For(ctx).Debugf("found %d minted content ids across %d tokens", len(minted), len(probes))
	return minted
}
