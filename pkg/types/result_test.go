package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Variants(t *testing.T) {
	tests := []struct {
		name        string
		result      Result[int]
		wantSuccess bool
		wantEmpty   bool
		wantFailure bool
	}{
		{name: "success", result: Success(7), wantSuccess: true},
		{name: "success-with-zero", result: Success(0), wantSuccess: true},
		{name: "empty", result: Empty[int](), wantEmpty: true},
		{name: "failure", result: Failure[int](errors.New("boom")), wantFailure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSuccess, tt.result.IsSuccess())
			assert.Equal(t, tt.wantEmpty, tt.result.IsEmpty())
			assert.Equal(t, tt.wantFailure, tt.result.IsFailure())
		})
	}
}

func TestResult_ZeroValueIsNotSuccess(t *testing.T) {
	var r Result[int]
	assert.False(t, r.IsSuccess())
	assert.False(t, r.IsEmpty())
	assert.False(t, r.IsFailure())
}
