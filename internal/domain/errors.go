package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)

// ExtractionFailedError reports that document content could not be acquired
// for the given file type. It matches ErrExtractionFailed with errors.Is and
// unwraps to the underlying reader error.
type ExtractionFailedError struct {
	FileType FileType
	Err      error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("%s parsing failed: %v", e.FileType.Label(), e.Err)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

func (e *ExtractionFailedError) Is(target error) bool {
	return target == ErrExtractionFailed
}
