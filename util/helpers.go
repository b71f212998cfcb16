package util

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const GinContextKey string = "GinContextKey"

// RemoveBOM removes the byte order mark from a byte array
func RemoveBOM(bs []byte) []byte {
	if len(bs) > 3 && bs[0] == 0xEF && bs[1] == 0xBB && bs[2] == 0xBF {
		return bs[3:]
	}
	return bs
}

// GinContextFromContext retrieves a gin.Context previously stored in the request context via the GinContextToContext middleware.
// Returns nil if there is none.
func GinContextFromContext(ctx context.Context) *gin.Context {
	// If the current context is already a gin context, return it
	if gc, ok := ctx.(*gin.Context); ok {
		return gc
	}

	gc, _ := ctx.Value(GinContextKey).(*gin.Context)
	return gc
}

// UpperFirst upper-cases the first byte of an ASCII string.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
