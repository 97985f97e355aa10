package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pq.Error{Code: uniqueViolation},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("failed to create subscriber: %w", &pq.Error{Code: uniqueViolation}),
			want: true,
		},
		{
			name: "other postgres error",
			err:  &pq.Error{Code: "23503"}, // foreign key violation
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
