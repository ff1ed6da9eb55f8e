package account

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/probelab/accountd/pkg/auth"
)

// MockUserStore is a mock implementation of auth.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, nu auth.NewUser) (*auth.User, error) {
	args := m.Called(ctx, nu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) UpdateFields(ctx context.Context, id int64, fields auth.Fields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockStateStore is a mock implementation of auth.StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) StoreState(ctx context.Context, state, payload string, ttl time.Duration) error {
	args := m.Called(ctx, state, payload, ttl)
	return args.Error(0)
}

func (m *MockStateStore) ConsumeState(ctx context.Context, state string) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

// MockProviderAdapter is a mock implementation of auth.ProviderAdapter.
type MockProviderAdapter struct {
	mock.Mock
}

func (m *MockProviderAdapter) ProviderID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProviderAdapter) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProviderAdapter) ResolveProfile(ctx context.Context, code string) (auth.Profile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(auth.Profile), args.Error(1)
}
