package middleware

import (
	"context"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	sentryutil "github.com/superpiccell/spen-minter/service/sentry"
	"github.com/superpiccell/spen-minter/util"
)

// AccountSource is anything that knows the connected wallet account
type AccountSource interface {
	Account() persist.EthereumAddress
}

// WalletRequired aborts the request unless a wallet account is connected
func WalletRequired(session AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := session.Account()
		if account == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.ErrorResponse{Error: "wallet not connected"})
			return
		}

		loggerCtx := logger.NewContextWithFields(c.Request.Context(), logrus.Fields{
			"account": account,
		})
		c.Request = c.Request.WithContext(loggerCtx)

		c.Next()
	}
}

// RequestID tags every request's log entries with a unique id
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ksuid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		c.Request = c.Request.WithContext(logger.NewContextWithFields(c.Request.Context(), logrus.Fields{
			"requestId": id,
		}))
		c.Next()
	}
}

// HandleCORS sets the CORS headers for the allowed origins. "*" allows every origin.
func HandleCORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		if allowed["*"] || allowed[requestOrigin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, sentry-trace, baggage")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Content-Type, X-Request-Id")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ErrLogger is a middleware that logs errors
func ErrLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.For(c).Errorf("%s %s %s %s %s", c.Request.Method, c.Request.URL, c.ClientIP(), c.Request.Header.Get("User-Agent"), c.Errors.JSON())
		}
	}
}

// GinContextToContext is a middleware that adds the Gin context to the request context,
// so services handed the request context can still reach the Gin context.
func GinContextToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), util.GinContextKey, c)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func Sentry(reportGinErrors bool) gin.HandlerFunc {
	handler := sentrygin.New(sentrygin.Options{Repanic: true})

	return func(c *gin.Context) {
		// Clone a new hub for each request
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("route", c.FullPath())

		// Add the cloned hub to the request context so sentrygin will find it
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		// Invoke the sentrygin handler. We don't call c.Next() here because sentrygin does it for us.
		handler(c)

		if reportGinErrors {
			for _, err := range c.Errors {
				sentryutil.ReportError(c.Request.Context(), err)
			}
		}
	}
}
