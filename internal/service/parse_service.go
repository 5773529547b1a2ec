package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docparser/internal/config"
	"docparser/internal/csvexport"
	"docparser/internal/domain"
	"docparser/internal/extract"
	"docparser/internal/metrics"
	"docparser/internal/port"
	s3storage "docparser/internal/storage/s3"
)

// UploadDocumentPrefix prefixes the document id of uploaded files.
const UploadDocumentPrefix = "upload_"

// ParseInput is the DTO for parse requests against an existing file.
type ParseInput struct {
	DocumentID string
	FilePath   string
	FileType   string
}

// UploadInput is the DTO for upload-and-parse requests.
type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ParseService defines the document parsing contract.
type ParseService interface {
	Parse(ctx context.Context, input ParseInput) (*domain.ParseRecord, error)
	UploadAndParse(ctx context.Context, input UploadInput) (*domain.ParseRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error)
	ListRecords(ctx context.Context, offset, limit int) ([]domain.ParseRecord, int, error)
	ExportMetricsCSV(ctx context.Context, id uuid.UUID, w io.Writer) (string, error)
}

type parseService struct {
	engine    *extract.Engine
	reader    port.DocumentReader
	repo      port.ParseRecordRepository
	storage   port.ObjectStorage
	uploadCfg *config.UploadConfig
	s3Cfg     *config.S3Config
	logger    *zap.Logger
}

// NewParseService creates a new ParseService implementation.
// storage may be nil when neither s3:// sources nor upload archiving are used.
func NewParseService(
	engine *extract.Engine,
	reader port.DocumentReader,
	repo port.ParseRecordRepository,
	storage port.ObjectStorage,
	uploadCfg *config.UploadConfig,
	s3Cfg *config.S3Config,
	logger *zap.Logger,
) ParseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &parseService{
		engine:    engine,
		reader:    reader,
		repo:      repo,
		storage:   storage,
		uploadCfg: uploadCfg,
		s3Cfg:     s3Cfg,
		logger:    logger,
	}
}

func (s *parseService) Parse(ctx context.Context, input ParseInput) (*domain.ParseRecord, error) {
	fileType, err := domain.ParseFileType(input.FileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, input.FileType)
	}

	data, err := s.load(ctx, input.FilePath)
	if err != nil {
		s.logger.Warn("parseService.Parse: loading source failed",
			zap.String("document_id", input.DocumentID),
			zap.String("file_path", input.FilePath),
			zap.Error(err))
		metrics.ParsesTotal.WithLabelValues(string(fileType), metrics.ResultError).Inc()
		return nil, err
	}

	return s.process(ctx, input.DocumentID, input.FilePath, "", fileType, data), nil
}

func (s *parseService) UploadAndParse(ctx context.Context, input UploadInput) (*domain.ParseRecord, error) {
	filename := filepath.Base(input.Header.Filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, filepath.Ext(filename))
	}

	maxBytes := s.uploadCfg.MaxFileSizeBytes()
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	tmpPath, err := s.stage(input.File, ext, maxBytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("parseService.UploadAndParse: removing temp file failed",
				zap.String("path", tmpPath), zap.Error(rmErr))
		}
	}()

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reading staged upload: %w", err)
	}

	s.logger.Info("parseService.UploadAndParse: staged upload",
		zap.String("filename", filename),
		zap.String("file_type", string(fileType)),
		zap.Int("bytes", len(data)))

	archiveKey := ""
	sourcePath := filename
	if s.uploadCfg.ArchiveToS3 {
		archiveKey, err = s.archive(ctx, filename, data)
		if err != nil {
			return nil, err
		}
		sourcePath = s3storage.URIScheme + s.s3Cfg.Bucket + "/" + archiveKey
	}

	return s.process(ctx, UploadDocumentPrefix+filename, sourcePath, archiveKey, fileType, data), nil
}

func (s *parseService) GetRecord(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *parseService) ListRecords(ctx context.Context, offset, limit int) ([]domain.ParseRecord, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// ExportMetricsCSV writes the record's metrics as a BOM-prefixed CSV to w and
// returns the attachment filename.
func (s *parseService) ExportMetricsCSV(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return "", fmt.Errorf("writing BOM: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteRecord(rec); err != nil {
		return "", fmt.Errorf("writing CSV rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return csvexport.BuildFilename(rec.DocumentID, rec.CreatedAt), nil
}

// process runs extraction and persists the outcome. Extraction failures are
// reported on the record, not as an error.
func (s *parseService) process(ctx context.Context, documentID, sourcePath, archiveKey string, fileType domain.FileType, data []byte) *domain.ParseRecord {
	start := time.Now()
	record := &domain.ParseRecord{
		ID:         uuid.New(),
		DocumentID: documentID,
		FileType:   fileType,
		SourcePath: sourcePath,
		ArchiveKey: archiveKey,
		Tables:     []domain.CandidateTable{},
		Metrics:    []domain.FinancialMetric{},
	}

	result, err := s.engine.ExtractDocument(ctx, s.reader, fileType, data)
	metrics.ParseDuration.WithLabelValues(string(fileType)).Observe(time.Since(start).Seconds())
	if err != nil {
		record.Success = false
		record.Error = err.Error()
		metrics.ParsesTotal.WithLabelValues(string(fileType), metrics.ResultExtractionFailed).Inc()
		s.logger.Warn("parseService.process: extraction failed",
			zap.String("document_id", documentID),
			zap.String("file_type", string(fileType)),
			zap.Error(err))
	} else {
		record.Success = true
		record.ExtractedText = result.ExtractedText
		record.Tables = result.Tables
		record.Metrics = result.Metrics
		record.Confidence = result.Confidence
		metrics.ParsesTotal.WithLabelValues(string(fileType), metrics.ResultSuccess).Inc()
		metrics.RecordExtraction(result)
		s.logger.Info("parseService.process: document parsed",
			zap.String("document_id", documentID),
			zap.String("file_type", string(fileType)),
			zap.Int("tables", len(result.Tables)),
			zap.Int("metrics", len(result.Metrics)),
			zap.Duration("elapsed", time.Since(start)))
	}
	record.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("parseService.process: failed to persist parse record",
			zap.String("record_id", record.ID.String()),
			zap.String("document_id", documentID),
			zap.Error(err))
	}
	return record
}

// load reads a document from an s3:// URI or the local filesystem,
// enforcing the configured size limit.
func (s *parseService) load(ctx context.Context, path string) ([]byte, error) {
	maxBytes := s.uploadCfg.MaxFileSizeBytes()

	if bucket, key, ok := s3storage.ParseURI(path); ok {
		if s.storage == nil {
			return nil, fmt.Errorf("object storage not configured for %s", path)
		}
		return s.storage.Download(ctx, bucket, key, maxBytes)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrNotFound, path)
	}
	if info.Size() > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// stage copies the upload to a temp file, rejecting bodies over maxBytes.
func (s *parseService) stage(src io.Reader, ext string, maxBytes int64) (string, error) {
	tmp, err := os.CreateTemp(s.uploadCfg.TempDir, "upload-*."+ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	n, copyErr := io.Copy(tmp, io.LimitReader(src, maxBytes+1))
	closeErr := tmp.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing temp file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	case n > maxBytes:
		_ = os.Remove(tmp.Name())
		return "", domain.ErrFileTooLarge
	}
	return tmp.Name(), nil
}

// archive stores the original upload under uploads/<uuid>/<filename>.
func (s *parseService) archive(ctx context.Context, filename string, data []byte) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage not configured: %w", domain.ErrUploadFailed)
	}

	key := fmt.Sprintf("uploads/%s/%s", uuid.New(), filename)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentTypeFor(filename),
		Size:        int64(len(data)),
	})
	if err != nil {
		metrics.ArchiveUploads.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error("parseService.archive: S3 upload failed",
			zap.String("key", key), zap.Error(err))
		return "", domain.ErrUploadFailed
	}
	metrics.ArchiveUploads.WithLabelValues(metrics.ResultSuccess).Inc()
	return key, nil
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".csv":  "text/csv",
}

func contentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
