package util

import (
	"context"
	"time"

	"github.com/superpiccell/spen-minter/service/logger"
)

// Track the time it takes to execute a function
func Track(ctx context.Context, s string, startTime time.Time) {
	endTime := time.Now()
	logger.For(ctx).Debugf("%s took %v", s, endTime.Sub(startTime))
}
