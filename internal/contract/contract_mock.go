package contract

import (
	"context"

	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/mock"
)

// MockMetadataLookup is a mock implementation of MetadataLookup for testing.
type MockMetadataLookup struct {
	mock.Mock
}

var _ MetadataLookup = &MockMetadataLookup{} // Compile-time check

// Lookup implements the MetadataLookup interface.
func (m *MockMetadataLookup) Lookup(ctx context.Context, id string) (schema.Attributes, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Attributes), args.Error(1)
}

// MockPrefetchingLookup is a MockMetadataLookup that also implements MetadataPrefetcher.
type MockPrefetchingLookup struct {
	MockMetadataLookup
}

var _ MetadataPrefetcher = &MockPrefetchingLookup{} // Compile-time check

// Prefetch implements the MetadataPrefetcher interface.
func (m *MockPrefetchingLookup) Prefetch(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
