package apperrors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct app error",
			err:  New(KindNotFound, "session not found"),
			want: KindNotFound,
		},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("service: %w", New(KindRateLimit, "too many attempts")),
			want: KindRateLimit,
		},
		{
			name: "plain error defaults to internal",
			err:  errors.New("boom"),
			want: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(KindVaultUnavailable, "unwrap session key", errors.New("connection refused"))

	assert.True(t, errors.Is(err, New(KindVaultUnavailable, "anything")))
	assert.False(t, errors.Is(err, New(KindAuthentication, "anything")))
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	err := RateLimited("budget exhausted", 42*time.Minute)

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, KindRateLimit, appErr.Kind)
	assert.Equal(t, 42*time.Minute, appErr.RetryAfter)
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindAuditWrite, "append audit entry", cause)

	assert.True(t, errors.Is(err, cause))
}
