package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docparser/internal/domain"
	"docparser/internal/port"
)

// parseRecordRow mirrors the parse_records table; tables and metrics are JSONB.
type parseRecordRow struct {
	ID            uuid.UUID       `db:"id"`
	DocumentID    string          `db:"document_id"`
	FileType      string          `db:"file_type"`
	SourcePath    string          `db:"source_path"`
	ArchiveKey    string          `db:"archive_key"`
	ExtractedText string          `db:"extracted_text"`
	Tables        json.RawMessage `db:"tables"`
	Metrics       json.RawMessage `db:"metrics"`
	Confidence    float64         `db:"confidence"`
	Success       bool            `db:"success"`
	Error         string          `db:"error"`
	CreatedAt     time.Time       `db:"created_at"`
}

func toRow(rec *domain.ParseRecord) (*parseRecordRow, error) {
	tables := rec.Tables
	if tables == nil {
		tables = []domain.CandidateTable{}
	}
	metrics := rec.Metrics
	if metrics == nil {
		metrics = []domain.FinancialMetric{}
	}

	tablesJSON, err := json.Marshal(tables)
	if err != nil {
		return nil, fmt.Errorf("encoding tables: %w", err)
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("encoding metrics: %w", err)
	}

	return &parseRecordRow{
		ID:            rec.ID,
		DocumentID:    rec.DocumentID,
		FileType:      string(rec.FileType),
		SourcePath:    rec.SourcePath,
		ArchiveKey:    rec.ArchiveKey,
		ExtractedText: rec.ExtractedText,
		Tables:        tablesJSON,
		Metrics:       metricsJSON,
		Confidence:    rec.Confidence,
		Success:       rec.Success,
		Error:         rec.Error,
		CreatedAt:     rec.CreatedAt,
	}, nil
}

func (row *parseRecordRow) toDomain() (*domain.ParseRecord, error) {
	rec := &domain.ParseRecord{
		ID:            row.ID,
		DocumentID:    row.DocumentID,
		FileType:      domain.FileType(row.FileType),
		SourcePath:    row.SourcePath,
		ArchiveKey:    row.ArchiveKey,
		ExtractedText: row.ExtractedText,
		Confidence:    row.Confidence,
		Success:       row.Success,
		Error:         row.Error,
		CreatedAt:     row.CreatedAt,
		Tables:        []domain.CandidateTable{},
		Metrics:       []domain.FinancialMetric{},
	}
	if len(row.Tables) > 0 {
		if err := json.Unmarshal(row.Tables, &rec.Tables); err != nil {
			return nil, fmt.Errorf("decoding tables: %w", err)
		}
	}
	if len(row.Metrics) > 0 {
		if err := json.Unmarshal(row.Metrics, &rec.Metrics); err != nil {
			return nil, fmt.Errorf("decoding metrics: %w", err)
		}
	}
	return rec, nil
}

type parseRecordRepo struct {
	db *sqlx.DB
}

// NewParseRecordRepo creates a new PostgreSQL-backed ParseRecordRepository.
func NewParseRecordRepo(db *sqlx.DB) port.ParseRecordRepository {
	return &parseRecordRepo{db: db}
}

func (r *parseRecordRepo) Create(ctx context.Context, rec *domain.ParseRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	row, err := toRow(rec)
	if err != nil {
		return fmt.Errorf("parseRecordRepo.Create: %w", err)
	}

	query := `INSERT INTO parse_records
		(id, document_id, file_type, source_path, archive_key, extracted_text,
		 tables, metrics, confidence, success, error, created_at)
		VALUES (:id, :document_id, :file_type, :source_path, :archive_key, :extracted_text,
		 :tables, :metrics, :confidence, :success, :error, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("parseRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *parseRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	var row parseRecordRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM parse_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("parseRecordRepo.GetByID: %w", err)
	}

	rec, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("parseRecordRepo.GetByID: %w", err)
	}
	return rec, nil
}

func (r *parseRecordRepo) List(ctx context.Context, offset, limit int) ([]domain.ParseRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM parse_records"); err != nil {
		return nil, 0, fmt.Errorf("parseRecordRepo.List count: %w", err)
	}

	var rows []parseRecordRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM parse_records
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("parseRecordRepo.List: %w", err)
	}

	records := make([]domain.ParseRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("parseRecordRepo.List: %w", err)
		}
		records = append(records, *rec)
	}
	return records, total, nil
}
