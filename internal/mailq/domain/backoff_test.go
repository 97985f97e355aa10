package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		want       time.Duration
	}{
		{name: "first retry", retryCount: 1, want: 5 * time.Minute},
		{name: "second retry", retryCount: 2, want: 10 * time.Minute},
		{name: "third retry", retryCount: 3, want: 20 * time.Minute},
		{name: "fourth retry", retryCount: 4, want: 40 * time.Minute},
		{name: "fifth retry", retryCount: 5, want: 80 * time.Minute},
		{name: "sixth retry", retryCount: 6, want: 160 * time.Minute},
		{name: "seventh retry still doubles", retryCount: 7, want: 320 * time.Minute},
		{name: "eighth retry hits the cap", retryCount: 8, want: 360 * time.Minute},
		{name: "far past the cap", retryCount: 30, want: 360 * time.Minute},
		{name: "zero treated as first", retryCount: 0, want: 5 * time.Minute},
		{name: "negative treated as first", retryCount: -3, want: 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryDelay(tt.retryCount))
		})
	}
}
