package domain

import "time"

const (
	baseRetryDelay = 5 * time.Minute
	maxRetryDelay  = 360 * time.Minute
)

// RetryDelay returns how long a job must wait before its next attempt,
// given the retry count after the failure that just happened. The delay
// doubles per attempt starting at 5 minutes (5, 10, 20, 40, 80, 160) and
// is capped at 6 hours.
func RetryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	delay := baseRetryDelay
	for i := 1; i < retryCount; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
