package logger

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const loggerContextKey = "logger.logger"

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, loggerContextKey, For(parent).WithFields(fields))
}

func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// InitWithDefaults configures the process-wide logger. Debug output is enabled unless quiet is set.
func InitWithDefaults(env string, quiet bool) {
	SetLoggerOptions(func(l *logrus.Logger) {
		l.SetReportCaller(true)
		if env == "local" {
			l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
		if quiet {
			l.SetLevel(logrus.InfoLevel)
		} else {
			l.SetLevel(logrus.DebugLevel)
		}
	})
}

func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}

	// If ctx is a *gin.Context, get the underlying request context
	if gc, ok := ctx.(*gin.Context); ok {
		ctx = gc.Request.Context()
	}

	value := ctx.Value(loggerContextKey)
	if logger, ok := value.(*logrus.Entry); ok {
		return logger.WithContext(ctx)
	}

	return defaultEntry.WithContext(ctx)
}

// LoggedError wraps the original error and logging message.
type LoggedError struct {
	Message string         // The original message passed to the logger
	Err     error          // The error added to the logger
	Caller  *runtime.Frame // Available if logger is configured to report on the caller
}

func (e LoggedError) Error() string {
	msg := e.Message

	if e.Err != nil {
		msg += fmt.Sprintf(": %s", e.Err)
	}

	if e.Caller != nil {
		msg += fmt.Sprintf("; occurred around: %s:%s %d",
			e.Caller.File, e.Caller.Function, e.Caller.Line,
		)
	}

	return msg
}

func (e LoggedError) Unwrap() error {
	return e.Err
}

// Errorf logs err with msg and returns a LoggedError so callers can keep propagating it.
func Errorf(ctx context.Context, err error, msg string, args ...any) LoggedError {
	formatted := fmt.Sprintf(msg, args...)
	For(ctx).WithError(err).Error(formatted)
	return LoggedError{Message: formatted, Err: err}
}

// GinErrorLoggerErr is an error reported by the ErrLogger middleware.
type GinErrorLoggerErr struct {
	Context *gin.Context
}

func (e GinErrorLoggerErr) Error() string {
	return fmt.Sprintf("%s %s %s %s %s", e.Context.Request.Method, e.Context.Request.URL, e.Context.ClientIP(), e.Context.Request.Header.Get("User-Agent"), e.Context.Errors.JSON())
}
