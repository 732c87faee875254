package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/provider"
)

// MockAdapter implements provider.Adapter
type MockAdapter struct {
	mock.Mock
	ProviderName string
}

// Name returns the provider name this adapter serves
func (m *MockAdapter) Name() string {
	return m.ProviderName
}

// ListMessagesSince lists messages newer than since
func (m *MockAdapter) ListMessagesSince(ctx context.Context, account *models.EmailAccount, since time.Time, limit int) ([]provider.InboundMessage, error) {
	args := m.Called(ctx, account, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.InboundMessage), args.Error(1)
}
