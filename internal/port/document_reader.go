package port

import (
	"context"

	"docparser/internal/domain"
)

// DocumentReader turns raw file bytes into text or tabular content.
type DocumentReader interface {
	Read(ctx context.Context, fileType domain.FileType, data []byte) (*domain.DocumentContent, error)
}
