package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	base := NewExtractError(ErrCodeTimeout, "worker exceeded deadline", nil)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", base, ErrCodeTimeout},
		{"wrapped", fmt.Errorf("extract: %w", base), ErrCodeTimeout},
		{"foreign error", errors.New("boom"), ErrCodeInternal},
		{"nil", nil, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestExtractError_DetailInMessages(t *testing.T) {
	cause := errors.New("exit status 3")
	err := NewExtractError(ErrCodeWorkerCrashed, "worker exited non-zero", cause).WithDetail("boom")

	assert.Equal(t, "WORKER_CRASHED: worker exited non-zero: boom: exit status 3", err.Error())
	assert.ErrorIs(t, err, cause)

	d := err.ToDetail()
	assert.Equal(t, ErrCodeWorkerCrashed, d.Code)
	assert.Equal(t, "worker exited non-zero: boom", d.Message)
}
