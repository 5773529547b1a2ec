package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparser/internal/domain"
)

// MockDocumentReader is a mock implementation of port.DocumentReader.
type MockDocumentReader struct {
	mock.Mock
}

func (m *MockDocumentReader) Read(ctx context.Context, fileType domain.FileType, data []byte) (*domain.DocumentContent, error) {
	args := m.Called(ctx, fileType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentContent), args.Error(1)
}
