package payment_intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntentStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IntentStatus
		wantErr bool
	}{
		{name: "succeeded", input: "succeeded", want: IntentStatusSucceeded},
		{name: "requires_action", input: "requires_action", want: IntentStatusRequiresAction},
		{name: "processing", input: "processing", want: IntentStatusProcessing},
		{name: "canceled", input: "canceled", want: IntentStatusCanceled},
		{name: "異常系: 未知のステータス", input: "unknown", wantErr: true},
		{name: "異常系: 空文字", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewIntentStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntentStatus_IsSucceeded(t *testing.T) {
	assert.True(t, IntentStatusSucceeded.IsSucceeded())
	assert.False(t, IntentStatusProcessing.IsSucceeded())
	assert.False(t, IntentStatusRequiresAction.IsSucceeded())
	assert.False(t, IntentStatusCanceled.IsSucceeded())
}

func TestIntentStatus_IsPending(t *testing.T) {
	assert.True(t, IntentStatusProcessing.IsPending())
	assert.True(t, IntentStatusRequiresAction.IsPending())
	assert.False(t, IntentStatusSucceeded.IsPending())
	assert.False(t, IntentStatusCanceled.IsPending())
	assert.False(t, IntentStatusRequiresPaymentMethod.IsPending())
}
