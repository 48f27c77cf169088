package mocks

import (
	"context"

	"hireflow_backend/internal/email"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) PushToUser(userID string, payload []byte) bool {
	args := m.Called(userID, payload)
	return args.Bool(0)
}

// MockEnqueuer запоминает переданные id
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ids ...string) {
	m.Called(ids)
}
