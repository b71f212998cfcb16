package catalog

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/util/retry"
)

// ContentReader is the registry surface the catalog reads. *contracts.SuperPiccellCoreCaller implements it.
type ContentReader interface {
	GetContentsByContentType(opts *bind.CallOpts, contentType string) ([]contracts.SuperPiccellCoreContent, error)
}

// ProtectionReader is the registry surface the oracle reads. *contracts.SuperPiccellCoreCaller implements it.
type ProtectionReader interface {
	IsContractProtected(opts *bind.CallOpts) (bool, error)
	IsContentProtected(opts *bind.CallOpts, contentId *big.Int) (bool, error)
}

// ContentCatalog lists the mintable content of one content type
type ContentCatalog struct {
	core        ContentReader
	contentType string
}

func NewContentCatalog(core ContentReader, contentType string) *ContentCatalog {
	return &ContentCatalog{core: core, contentType: contentType}
}

// Contents fetches every content item of the catalog's type. Listing content does not gate
// minting, so it is read directly rather than through the network guard.
func (c *ContentCatalog) Contents(ctx context.Context) ([]persist.ContentItem, error) {
	var raw []contracts.SuperPiccellCoreContent
	err := retry.RetryFunc(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.core.GetContentsByContentType(&bind.CallOpts{Context: ctx}, c.contentType)
		return err
	}, retry.IsRateLimited, retry.DefaultRetry)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contents of type %q: %w", c.contentType, err)
	}

	items := make([]persist.ContentItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, persist.ContentItem{
			ID:      persist.NewContentID(r.Id),
			Content: r.Content,
		})
	}
	return items, nil
}

// ProtectionOracle answers whether the registry, or a single content item, is in protected mode
type ProtectionOracle struct {
	core      ProtectionReader
	validator gateway.NetworkValidator
}

func NewProtectionOracle(core ProtectionReader, validator gateway.NetworkValidator) *ProtectionOracle {
	return &ProtectionOracle{core: core, validator: validator}
}

// ContractProtected reports whether the registry is in protected mode
func (o *ProtectionOracle) ContractProtected(ctx context.Context) gateway.Result[bool] {
	return gateway.Call(ctx, o.validator, "isContractProtected", func(ctx context.Context) (bool, error) {
		return o.core.IsContractProtected(&bind.CallOpts{Context: ctx})
	})
}

// ContentProtected reports whether a single content item is protected
func (o *ProtectionOracle) ContentProtected(ctx context.Context, id persist.ContentID) gateway.Result[bool] {
	ctx = logger.NewContextWithFields(ctx, logrus.Fields{"contentId": id})
	return gateway.Call(ctx, o.validator, "isContentProtected", func(ctx context.Context) (bool, error) {
		contentID := id.BigInt()
		if contentID == nil {
			return false, fmt.Errorf("%w: %q", persist.ErrInvalidContentID, id)
		}
		return o.core.IsContentProtected(&bind.CallOpts{Context: ctx}, contentID)
	})
}
