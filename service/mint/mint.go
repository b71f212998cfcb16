package mint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/contracts"
	"github.com/superpiccell/spen-minter/service/eligibility"
	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/nft"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/service/rpc"
	sentryutil "github.com/superpiccell/spen-minter/service/sentry"
	"github.com/superpiccell/spen-minter/service/wallet"
)

// SuccessMessage is shown once a mint transaction is confirmed
const SuccessMessage = "NFT successfully minted!"

var (
	// ErrMintInFlight is returned when another mint has not finished yet. No validation is attempted.
	ErrMintInFlight = errors.New("another mint is already in progress")
	// ErrUserRejected is returned when the wallet user declined the transaction. It is never shown.
	ErrUserRejected = errors.New("transaction rejected by user")
	// ErrContractRevert wraps every other submission failure
	ErrContractRevert = errors.New("mint failed")
	// ErrMintConfigUnavailable is returned when the mint configuration has not been loaded
	ErrMintConfigUnavailable = errors.New("mint configuration unavailable")
)

// PreconditionError is a refused mint. Message is shown to the user as is.
type PreconditionError struct {
	Message string
}

func (e PreconditionError) Error() string {
	return e.Message
}

// Preconditions, in the order they are checked
var (
	ErrWalletNotConnected   = PreconditionError{"Please connect your wallet to mint an NFT."}
	ErrWrongNetwork         = PreconditionError{"Please switch to the correct network to mint an NFT."}
	ErrContractNotProtected = PreconditionError{"Contract is not in protected mode. Cannot mint NFT."}
	ErrContentNotProtected  = PreconditionError{"This content is not protected and cannot be minted."}
	ErrAlreadyMinted        = PreconditionError{"This content has already been minted."}
)

// TxLinker links a transaction on the block explorer. *config.Config implements it.
type TxLinker interface {
	TxURL(hash string) string
}

// Status is the outcome shown in the status dialog. An empty Message means nothing is shown.
type Status struct {
	Message  string   `json:"message"`
	TxHash   string   `json:"txHash,omitempty"`
	TxURL    string   `json:"txUrl,omitempty"`
	Success  bool     `json:"success"`
	NFTCount *big.Int `json:"-"`
}

// Submitter runs mint attempts one at a time
type Submitter struct {
	nftAddress   common.Address
	session      nft.AccountSession
	reconciler   *eligibility.Reconciler
	protection   eligibility.ContentProtection
	transactor   nft.Transactor
	supply       nft.TokenReader
	links        TxLinker
	pollInterval time.Duration
}

func NewSubmitter(
	nftAddress common.Address,
	session nft.AccountSession,
	reconciler *eligibility.Reconciler,
	protection eligibility.ContentProtection,
	transactor nft.Transactor,
	supply nft.TokenReader,
	links TxLinker,
	pollInterval time.Duration,
) *Submitter {
	return &Submitter{
		nftAddress:   nftAddress,
		session:      session,
		reconciler:   reconciler,
		protection:   protection,
		transactor:   transactor,
		supply:       supply,
		links:        links,
		pollInterval: pollInterval,
	}
}

// Mint runs one attempt for item: preconditions, metadata, submission and confirmation. The returned
// Status always describes what the user should see; the error classifies the outcome.
func (s *Submitter) Mint(ctx context.Context, item persist.ContentItem, cfg *persist.MintConfig) (Status, error) {
	if s.reconciler.LoadingID() != "" {
		return Status{}, ErrMintInFlight
	}

	account := s.session.Account()
	ctx = logger.NewContextWithFields(ctx, logrus.Fields{
		"contentId": item.ID,
		"account":   account,
	})

	if err := s.checkPreconditions(ctx, account, item.ID); err != nil {
		logger.For(ctx).WithError(err).Info("mint refused")
		return Status{Message: err.Error()}, err
	}

	if !s.reconciler.TryBeginMint(ctx, item.ID) {
		return Status{}, ErrMintInFlight
	}
	defer s.reconciler.EndMint(context.WithoutCancel(ctx), item.ID)

	ctx = logger.NewContextWithFields(ctx, logrus.Fields{"attempt": ksuid.New().String()})

	hash, err := s.submit(ctx, account, item, cfg)
	if err != nil {
		if rpc.IsUserRejected(err) {
			logger.For(ctx).Info("Transaction rejected by user.")
			return Status{}, ErrUserRejected
		}
		logger.For(ctx).WithError(err).Error("Error minting NFT")
		sentryutil.ReportMintError(ctx, err, item.ID.String(), account.String())
		return Status{Message: "Error minting NFT: " + rpc.RevertMessage(err)}, fmt.Errorf("%w: %s", ErrContractRevert, err)
	}

	status := Status{
		Message: SuccessMessage,
		TxHash:  hash.Hex(),
		Success: true,
	}
	if s.links != nil {
		status.TxURL = s.links.TxURL(hash.Hex())
	}

	s.reconciler.AddMinted(ctx, item.ID)

	if s.supply != nil {
		if count := nft.TotalSupply(ctx, s.supply, s.session); count.OK() {
			status.NFTCount = count.Value()
		}
	}

	logger.For(ctx).WithFields(logrus.Fields{"txHash": status.TxHash}).Info("NFT minted")
	return status, nil
}

func (s *Submitter) checkPreconditions(ctx context.Context, account persist.EthereumAddress, id persist.ContentID) error {
	if account == "" {
		return ErrWalletNotConnected
	}
	if !s.session.ValidateNetwork(ctx) {
		return ErrWrongNetwork
	}

	features := s.reconciler.Features()
	inputs := s.reconciler.Inputs()

	if features.CheckCoreProtectedMode && !inputs.ContractProtected {
		return ErrContractNotProtected
	}
	if features.CheckContentProtectedMode {
		protected := false
		if s.protection != nil {
			protected = s.protection.ContentProtected(ctx, id).ValueOr(false)
		}
		if !protected {
			return ErrContentNotProtected
		}
	}
	if features.CheckMintedContent && inputs.Minted.Has(id) {
		return ErrAlreadyMinted
	}
	return nil
}

// submit builds the metadata, sends mintNFT and waits for the receipt. Errors are returned unwrapped
// so wallet error codes and revert data stay visible.
func (s *Submitter) submit(ctx context.Context, account persist.EthereumAddress, item persist.ContentItem, cfg *persist.MintConfig) (common.Hash, error) {
	if cfg == nil {
		return common.Hash{}, ErrMintConfigUnavailable
	}

	md, err := nft.BuildMetadata(item)
	if err != nil {
		return common.Hash{}, err
	}
	metadataJSON, err := nft.MarshalMetadata(md)
	if err != nil {
		return common.Hash{}, err
	}

	contentID := item.ID.BigInt()
	if contentID == nil {
		return common.Hash{}, fmt.Errorf("%w: %q", persist.ErrInvalidContentID, item.ID)
	}

	parsed, err := contracts.SPENMetaData.GetAbi()
	if err != nil {
		return common.Hash{}, err
	}
	data, err := parsed.Pack("mintNFT", account.Address(), metadataJSON, contentID)
	if err != nil {
		return common.Hash{}, err
	}

	args := wallet.TransactionArgs{
		From: account.Address(),
		To:   &s.nftAddress,
		Data: data,
	}
	if cfg.PaysInEther() && cfg.MintPriceWei != nil && cfg.MintPriceWei.Sign() > 0 {
		args.Value = (*hexutil.Big)(new(big.Int).Set(cfg.MintPriceWei))
	}

	var txErr error
	res := gateway.Call(ctx, s.session, "mintNFT", func(ctx context.Context) (common.Hash, error) {
		hash, err := s.transactor.SendTransaction(ctx, args)
		if err != nil {
			txErr = err
			return common.Hash{}, err
		}
		logger.For(ctx).WithFields(logrus.Fields{"txHash": hash.Hex()}).Info("mint transaction sent")
		if _, err := s.transactor.WaitMined(ctx, hash, s.pollInterval); err != nil {
			txErr = err
			return hash, err
		}
		return hash, nil
	})
	if !res.OK() {
		if txErr != nil {
			return common.Hash{}, txErr
		}
		return common.Hash{}, res.Err()
	}
	return res.Value(), nil
}
