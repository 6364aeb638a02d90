package payment_intent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessorError_Kind(t *testing.T) {
	tests := []struct {
		status int
		want   ProcessorErrorKind
	}{
		{http.StatusBadRequest, ProcessorErrorKindRejected},
		{http.StatusPaymentRequired, ProcessorErrorKindRejected},
		{http.StatusNotFound, ProcessorErrorKindRejected},
		{http.StatusUnauthorized, ProcessorErrorKindCredential},
		{http.StatusForbidden, ProcessorErrorKindCredential},
		{http.StatusTooManyRequests, ProcessorErrorKindRateLimited},
		{http.StatusInternalServerError, ProcessorErrorKindUpstream},
		{http.StatusBadGateway, ProcessorErrorKindUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewProcessorError(tt.status, "", "", "boom")
			assert.Equal(t, tt.want, err.Kind())
		})
	}
}

func TestProcessorError_Error(t *testing.T) {
	err := NewProcessorError(http.StatusNotFound, "invalid_request_error", "resource_missing", "No such payment_intent: 'pi_x'")
	assert.Equal(t, "processor error (404 resource_missing): No such payment_intent: 'pi_x'", err.Error())

	err = NewProcessorError(http.StatusInternalServerError, "api_error", "", "internal")
	assert.Equal(t, "processor error (500): internal", err.Error())
}

func TestNewUnavailableError(t *testing.T) {
	err := NewUnavailableError(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrProcessorUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	assert.Equal(t, ErrProcessorUnavailable, NewUnavailableError(nil))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "validation", ErrorKind(ErrAmountRequired))
	assert.Equal(t, "auth", ErrorKind(NewAuthError("no token")))
	assert.Equal(t, "processor_rejected", ErrorKind(fmt.Errorf("wrapped: %w", NewProcessorError(402, "card_error", "card_declined", "declined"))))
	assert.Equal(t, "processor_unavailable", ErrorKind(NewUnavailableError(errors.New("dial tcp"))))
	assert.Equal(t, "unknown", ErrorKind(errors.New("other")))
}
