package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/middleware"
	"github.com/superpiccell/spen-minter/service/mint"
	"github.com/superpiccell/spen-minter/service/nft"
	"github.com/superpiccell/spen-minter/service/page"
	"github.com/superpiccell/spen-minter/service/persist"
	"github.com/superpiccell/spen-minter/util"
)

type MintPage interface {
	View(ctx context.Context) page.MintPageView
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context)
	DismissNotice()
	DismissStatus()
	Mint(ctx context.Context, id persist.ContentID) (mint.Status, error)
	AfterBurn(ctx context.Context)
}

type NFTList interface {
	Load(ctx context.Context) page.NFTListView
}

type Burner interface {
	Burn(ctx context.Context, tokenID persist.TokenID) (common.Hash, error)
}

// Handlers are the pages and actions the API exposes
type Handlers struct {
	MintPage MintPage
	NFTList  NFTList
	Burner   Burner
	Session  middleware.AccountSource
}

type healthcheckResponse struct {
	Message string `json:"msg"`
	Env     string `json:"env"`
}

type mintResponse struct {
	Status    mint.Status `json:"status"`
	Cancelled bool        `json:"cancelled,omitempty"`
}

type burnResponse struct {
	TokenID string `json:"tokenId"`
	TxHash  string `json:"txHash"`
	TxURL   string `json:"txUrl,omitempty"`
}

func handlersInit(router *gin.Engine, cfg *config.Config, h Handlers) *gin.Engine {
	router.GET("/health", healthcheck(cfg))

	// MINT PAGE

	router.GET("/contents", getMintPage(h.MintPage))
	router.POST("/mint/:contentId", mintContent(h.MintPage))
	router.POST("/status/dismiss", dismissStatus(h.MintPage))

	// WALLET

	walletGroup := router.Group("/wallet")
	walletGroup.POST("/connect", connectWallet(h.MintPage))
	walletGroup.POST("/disconnect", disconnectWallet(h.MintPage))
	walletGroup.POST("/notice/dismiss", dismissNotice(h.MintPage))

	// NFTS

	nftsGroup := router.Group("/nfts")
	nftsGroup.GET("", getNFTs(h.NFTList))
	nftsGroup.POST("/:tokenId/burn", middleware.WalletRequired(h.Session), burnToken(h.Burner, h.MintPage, cfg))

	return router
}

func healthcheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthcheckResponse{
			Message: "minter operational",
			Env:     cfg.AppEnv,
		})
	}
}

func getMintPage(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.View(c.Request.Context()))
	}
}

func mintContent(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := persist.ParseContentID(c.Param("contentId"))
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, util.ErrInvalidInput{Reason: err.Error()})
			return
		}

		status, err := p.Mint(c.Request.Context(), id)

		var precondition mint.PreconditionError
		switch {
		case err == nil:
			c.JSON(http.StatusOK, mintResponse{Status: status})
		case errors.Is(err, mint.ErrUserRejected):
			c.JSON(http.StatusOK, mintResponse{Status: status, Cancelled: true})
		case errors.As(err, &precondition):
			c.JSON(http.StatusUnprocessableEntity, mintResponse{Status: status})
		case errors.Is(err, mint.ErrMintInFlight):
			util.ErrResponse(c, http.StatusConflict, err)
		case errors.Is(err, page.ErrContentNotFound):
			util.ErrResponse(c, http.StatusNotFound, err)
		default:
			c.Error(err)
			c.JSON(http.StatusBadGateway, mintResponse{Status: status})
		}
	}
}

func dismissStatus(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.DismissStatus()
		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func connectWallet(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Connect(c.Request.Context()); err != nil {
			c.Error(err)
		}
		c.JSON(http.StatusOK, p.View(c.Request.Context()).Session)
	}
}

func disconnectWallet(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.Disconnect(c.Request.Context())
		c.JSON(http.StatusOK, p.View(c.Request.Context()).Session)
	}
}

func dismissNotice(p MintPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.DismissNotice()
		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func getNFTs(l NFTList) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, l.Load(c.Request.Context()))
	}
}

func burnToken(b Burner, p MintPage, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID, err := persist.TokenIDFromBase10(c.Param("tokenId"))
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, util.ErrInvalidInput{Reason: err.Error()})
			return
		}

		hash, err := b.Burn(c.Request.Context(), tokenID)
		if err != nil {
			if errors.Is(err, nft.ErrNotConnected) {
				util.ErrResponse(c, http.StatusUnauthorized, err)
				return
			}
			util.ErrResponse(c, http.StatusBadGateway, err)
			return
		}

		p.AfterBurn(c.Request.Context())

		c.JSON(http.StatusOK, burnResponse{
			TokenID: tokenID.Base10String(),
			TxHash:  hash.Hex(),
			TxURL:   cfg.TxURL(hash.Hex()),
		})
	}
}
