package retry

import (
	"errors"
	"strings"

	"repairshop/internal/pkg/errs"
)

// Classifier reports whether err is a transient throttling failure worth retrying.
type Classifier func(err error) bool

var rateLimitSignatures = []string{
	"rate limit",
	"too many requests",
}

// IsRateLimit recognises throttling by error type or by message signature.
// Signatures match case-insensitively anywhere in the wrapped message, so
// "RATE LIMIT", "Rate limit" and "Too Many Requests" all count.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrRateLimited) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, signature := range rateLimitSignatures {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}

// AnyOf combines classifiers; an error is retryable if any of them says so.
func AnyOf(classifiers ...Classifier) Classifier {
	return func(err error) bool {
		for _, classify := range classifiers {
			if classify != nil && classify(err) {
				return true
			}
		}
		return false
	}
}
