// Package dbtest provides database fixtures shared by package tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ubuygold/recordkeeper/internal/config"
	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/model"
)

// NewSQLite returns a real service backed by an isolated in-memory database.
func NewSQLite(t *testing.T) db.Service {
	t.Helper()
	service, err := db.NewService(config.DatabaseConfig{
		Type: "sqlite",
		DSN:  fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })
	return service
}

// MockService is a mock implementation of the db.Service interface.
type MockService struct {
	mock.Mock
}

var _ db.Service = (*MockService)(nil)

func (m *MockService) Close() error { return nil }

func (m *MockService) CreateAuthenticationKey(ctx context.Context, key *model.AuthenticationKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockService) FindAuthenticationKeyByKey(ctx context.Context, key string) (*model.AuthenticationKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthenticationKey), args.Error(1)
}

func (m *MockService) FindAuthenticationKeyByUsername(ctx context.Context, username string) (*model.AuthenticationKey, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthenticationKey), args.Error(1)
}

func (m *MockService) ListAuthenticationKeys(ctx context.Context) ([]model.AuthenticationKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuthenticationKey), args.Error(1)
}

func (m *MockService) CreateRecord(ctx context.Context, record *model.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockService) GetRecord(ctx context.Context, id uint) (*model.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockService) ListRecords(ctx context.Context, filter db.RecordQueryFilter) ([]model.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockService) UpdateRecord(ctx context.Context, id uint, mutate func(record *model.Record) error) (*model.Record, error) {
	args := m.Called(ctx, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockService) DeleteRecord(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
