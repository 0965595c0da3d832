package ratelimiter

import (
	"time"
)

const (
	cleanupInterval = 3 * time.Minute
	idleTTL         = 5 * time.Minute
)
