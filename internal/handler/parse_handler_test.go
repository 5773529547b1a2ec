package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docparser/internal/domain"
	"docparser/internal/handler"
	"docparser/internal/service"
	"docparser/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func successRecord() *domain.ParseRecord {
	return &domain.ParseRecord{
		ID:            uuid.New(),
		DocumentID:    "q3",
		FileType:      domain.FileTypePDF,
		ExtractedText: "EPS: 2.15",
		Tables:        []domain.CandidateTable{},
		Metrics: []domain.FinancialMetric{{
			Name: domain.MetricEPS, Value: 2.15, Unit: domain.UnitUnits,
			Period: domain.PeriodCurrent, Source: domain.SourceDocumentExtraction, Confidence: 0.7,
		}},
		Confidence: 0.8,
		Success:    true,
	}
}

func TestParseHandler_Parse_Success(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	rec := successRecord()

	svc.On("Parse", mock.Anything, service.ParseInput{DocumentID: "q3", FilePath: "/data/q3.pdf", FileType: "pdf"}).
		Return(rec, nil)

	body := `{"document_id":"q3","file_path":"/data/q3.pdf","file_type":"pdf"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "q3", data["document_id"])
	assert.Equal(t, 0.8, data["confidence"])
	metrics := data["metrics"].([]interface{})
	require.Len(t, metrics, 1)
	assert.Equal(t, "eps", metrics[0].(map[string]interface{})["name"])
	svc.AssertExpectations(t)
}

func TestParseHandler_Parse_ExtractionFailed(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	rec := &domain.ParseRecord{
		ID:         uuid.New(),
		DocumentID: "bad",
		FileType:   domain.FileTypeExcel,
		Tables:     []domain.CandidateTable{},
		Metrics:    []domain.FinancialMetric{},
		Success:    false,
		Error:      "Excel parsing failed: zip: not a valid zip file",
	}
	svc.On("Parse", mock.Anything, mock.Anything).Return(rec, nil)

	body := `{"document_id":"bad","file_path":"/data/bad.xlsx","file_type":"excel"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, false, resp["success"])
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "EXTRACTION_FAILED", errObj["code"])
	assert.Equal(t, "Excel parsing failed: zip: not a valid zip file", errObj["message"])
	data := resp["data"].(map[string]interface{})
	assert.Empty(t, data["metrics"])
}

func TestParseHandler_Parse_MissingFields(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"document_id":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Parse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_REQUEST", resp["error"].(map[string]interface{})["code"])
	svc.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
}

func TestParseHandler_Parse_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unsupported", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockParseService)
			h := handler.NewParseHandler(svc)
			svc.On("Parse", mock.Anything, mock.Anything).Return(nil, tt.err)

			body := `{"document_id":"d","file_path":"/p","file_type":"pdf"}`
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			h.Parse(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.code, resp["error"].(map[string]interface{})["code"])
		})
	}
}

func TestParseHandler_UploadAndParse(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	rec := successRecord()
	rec.DocumentID = "upload_q3.csv"

	svc.On("UploadAndParse", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Header != nil && in.Header.Filename == "q3.csv"
	})).Return(rec, nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "q3.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("item,amount\neps,2.15\n"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload-and-parse", body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	h.UploadAndParse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "upload_q3.csv", resp["data"].(map[string]interface{})["document_id"])
	svc.AssertExpectations(t)
}

func TestParseHandler_UploadAndParse_MissingFile(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload-and-parse", http.NoBody)

	h.UploadAndParse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "MISSING_FILE", resp["error"].(map[string]interface{})["code"])
}

func TestParseHandler_List(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	records := []domain.ParseRecord{*successRecord()}

	svc.On("ListRecords", mock.Anything, 40, 20).Return(records, 41, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/parses?offset=40&limit=500", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(41), meta["total"])
	assert.Equal(t, float64(40), meta["offset"])
	assert.Equal(t, float64(20), meta["limit"])
	assert.Len(t, resp["data"].([]interface{}), 1)
}

func TestParseHandler_GetByID(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	rec := successRecord()

	svc.On("GetRecord", mock.Anything, rec.ID).Return(rec, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/parses/"+rec.ID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, rec.ID.String(), resp["data"].(map[string]interface{})["id"])
}

func TestParseHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/parses/nope", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
}

func TestParseHandler_ExportCSV(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	id := uuid.New()
	payload := "\xEF\xBB\xBFDocument ID,Metric\nq3,eps\n"

	svc.On("ExportMetricsCSV", mock.Anything, id, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(2).(io.Writer), payload)
		}).
		Return("q3_metrics_2025-01-01.csv", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/parses/"+id.String()+"/export", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="q3_metrics_2025-01-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, payload, w.Body.String())
}

func TestParseHandler_ExportCSV_NotFound(t *testing.T) {
	svc := new(mocks.MockParseService)
	h := handler.NewParseHandler(svc)
	id := uuid.New()

	svc.On("ExportMetricsCSV", mock.Anything, id, mock.Anything).Return("", domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/parses/"+id.String()+"/export", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.ExportCSV(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
