package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		sentinel  error
		retryable bool
	}{
		{401, ErrorCodeAuth, ErrAuthentication, false},
		{403, ErrorCodePermission, ErrPermissionDenied, false},
		{404, ErrorCodeInvalidModel, ErrInvalidModel, false},
		{400, ErrorCodeInvalidRequest, ErrInvalidRequest, false},
		{429, ErrorCodeRateLimit, ErrRateLimit, true},
		{503, ErrorCodeUnavailable, ErrServiceUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "msg", nil)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), tt.sentinel)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := &ProviderError{Code: ErrorCodeNetwork, Message: "network error", Underlying: cause}
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "network_error: network error (socket closed)", err.Error())
}
