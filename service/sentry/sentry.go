package sentryutil

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"

	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/util"
)

const (
	errorContextName = "error context"
	mintContextName  = "mint context"
)

// Init starts the Sentry client. An empty dsn leaves reporting disabled.
func Init(dsn, environment string, tracesSampleRate float64) error {
	if dsn == "" {
		logger.For(context.Background()).Info("skipping sentry init")
		return nil
	}

	logger.For(context.Background()).Info("initializing sentry...")

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		TracesSampleRate: tracesSampleRate,
		AttachStacktrace: true,
		BeforeSend:       UpdateErrorFingerprints,
	})
}

func ReportRemappedError(ctx context.Context, originalErr error, remappedErr interface{}) {
	hub := SentryHubFromContext(ctx)
	if hub == nil {
		logger.For(ctx).Warnln("could not report error to Sentry because hub is nil")
		return
	}

	// Use a new scope so our error context and tag don't persist beyond this error
	hub.WithScope(func(scope *sentry.Scope) {
		if remappedErr != nil {
			SetErrorContext(scope, true, fmt.Sprintf("%T", remappedErr))
			scope.SetTag("remappedError", "true")
		} else {
			SetErrorContext(scope, false, "")
		}

		hub.CaptureException(originalErr)
	})
}

func ReportError(ctx context.Context, err error) {
	ReportRemappedError(ctx, err, nil)
}

// ReportMintError reports a failed mint with the content and account attached.
func ReportMintError(ctx context.Context, err error, contentID, account string) {
	hub := SentryHubFromContext(ctx)
	if hub == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetContext(mintContextName, sentry.Context{
			"contentId": contentID,
			"account":   account,
		})
		scope.SetTag("contentId", contentID)
		hub.CaptureException(err)
	})
}

func UpdateErrorFingerprints(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil || hint == nil || hint.OriginalException == nil {
		return event
	}

	// errors.New values all share one type; group them by message instead.
	exceptionType := fmt.Sprintf("%T", hint.OriginalException)
	if exceptionType == "*errors.errorString" {
		event.Fingerprint = []string{"{{ default }}", hint.OriginalException.Error()}
	}

	return event
}

func SetErrorContext(scope *sentry.Scope, mapped bool, mappedTo string) {
	scope.SetContext(errorContextName, sentry.Context{
		"Mapped":   mapped,
		"MappedTo": mappedTo,
	})
}

func NewSentryHubContext(ctx context.Context, hub *sentry.Hub) context.Context {
	var cpy *sentry.Hub
	if hub != nil {
		cpy = hub.Clone()
	}

	return sentry.SetHubOnContext(ctx, cpy)
}

// SentryHubFromContext gets a Hub from the supplied context, or from an underlying
// gin.Context if one is available. Falls back to the current hub when a client is bound.
func SentryHubFromContext(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		// Get a hub via Sentry's standard mechanism if possible
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}

		// Otherwise, see if there's a hub stored on the gin context
		if gc := util.GinContextFromContext(ctx); gc != nil {
			if hub := sentrygin.GetHubFromContext(gc); hub != nil {
				return hub
			}
		}
	}

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		return hub
	}

	return nil
}

// RecoverAndRaise reports a panic to Sentry, flushes, then re-panics.
func RecoverAndRaise(ctx context.Context) {
	if err := recover(); err != nil {
		hub := SentryHubFromContext(ctx)
		if hub != nil {
			hub.Recover(err)
			hub.Flush(2 * time.Second)
		}
		panic(err)
	}
}
