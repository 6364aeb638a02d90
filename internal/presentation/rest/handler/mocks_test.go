package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"payment-relay/internal/domain/payment_intent"
)

// MockProcessor モック決済プロセッサ
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateIntent(ctx context.Context, params payment_intent.CreateIntentParams) (*payment_intent.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment_intent.PaymentIntent), args.Error(1)
}

func (m *MockProcessor) RetrieveIntent(ctx context.Context, intentID string) (*payment_intent.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment_intent.PaymentIntent), args.Error(1)
}
