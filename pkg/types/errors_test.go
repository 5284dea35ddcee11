package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataIntegrityError(t *testing.T) {
	err := &DataIntegrityError{Field: "amount", Value: "12x", Reason: "not an integer"}

	assert.Equal(t, `data integrity: amount="12x": not an integer`, err.Error())
	assert.True(t, IsDataIntegrity(fmt.Errorf("transform bet: %w", err)))
	assert.False(t, IsUpstream(err))
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *UpstreamError
		want string
	}{
		{
			name: "status-and-message",
			err:  &UpstreamError{Operation: "getBet", StatusCode: 502, Message: "bad gateway"},
			want: "upstream getBet failed with status 502: bad gateway",
		},
		{
			name: "wrapped-cause",
			err:  &UpstreamError{Operation: "getBet", Err: cause},
			want: "upstream getBet failed: connection refused",
		},
		{
			name: "message-and-cause",
			err:  &UpstreamError{Operation: "getBet", Message: "decode response", Err: cause},
			want: "upstream getBet failed: decode response: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, IsUpstream(fmt.Errorf("fetch: %w", tt.err)))
			assert.False(t, IsDataIntegrity(tt.err))
		})
	}

	wrapped := &UpstreamError{Operation: "getBet", Err: cause}
	assert.ErrorIs(t, wrapped, cause)
}

func TestErrNotFound(t *testing.T) {
	err := fmt.Errorf("fetch bet: %w", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsUpstream(err))
	assert.False(t, IsDataIntegrity(err))
}
