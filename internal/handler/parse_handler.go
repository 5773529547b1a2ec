package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docparser/internal/service"
)

// ParseRequest is the body of POST /api/v1/parse.
type ParseRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	FilePath   string `json:"file_path" binding:"required"`
	FileType   string `json:"file_type" binding:"required"`
}

// ParseHandler handles document parsing endpoints.
type ParseHandler struct {
	parseService service.ParseService
}

// NewParseHandler creates a new ParseHandler.
func NewParseHandler(parseService service.ParseService) *ParseHandler {
	return &ParseHandler{parseService: parseService}
}

// Parse handles POST /api/v1/parse
// @Summary Parse a stored document
// @Description Extract financial metrics and tables from a local path or s3:// URI
// @Tags parse
// @Accept json
// @Produce json
// @Param body body ParseRequest true "Document to parse"
// @Success 200 {object} APIResponse{data=domain.ParseRecord} "Parse outcome; success=false on extraction failure"
// @Failure 400 {object} APIResponse "Invalid request or unsupported file type"
// @Failure 404 {object} APIResponse "Source file not found"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 500 {object} APIResponse "Internal error"
// @Router /parse [post]
func (h *ParseHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rec, err := h.parseService.Parse(c.Request.Context(), service.ParseInput{
		DocumentID: req.DocumentID,
		FilePath:   req.FilePath,
		FileType:   req.FileType,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondParseRecord(c, rec)
}

// UploadAndParse handles POST /api/v1/upload-and-parse
// @Summary Upload and parse a document
// @Description Upload a PDF, Excel or CSV file and extract financial metrics and tables
// @Tags parse
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to parse (pdf, xlsx, xls, csv)"
// @Success 200 {object} APIResponse{data=domain.ParseRecord} "Parse outcome; success=false on extraction failure"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 500 {object} APIResponse "Upload failed"
// @Router /upload-and-parse [post]
func (h *ParseHandler) UploadAndParse(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.parseService.UploadAndParse(c.Request.Context(), service.UploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondParseRecord(c, rec)
}

// List handles GET /api/v1/parses
// @Summary List parse records
// @Description List parse records, newest first
// @Tags parse
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} APIResponse{data=[]domain.ParseRecord,meta=PagMeta} "Parse records"
// @Failure 500 {object} APIResponse "Internal error"
// @Router /parses [get]
func (h *ParseHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	records, total, err := h.parseService.ListRecords(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/parses/:id
// @Summary Get a parse record
// @Tags parse
// @Produce json
// @Param id path string true "Parse record ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.ParseRecord} "Parse record"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Not found"
// @Router /parses/{id} [get]
func (h *ParseHandler) GetByID(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	rec, err := h.parseService.GetRecord(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// ExportCSV handles GET /api/v1/parses/:id/export
// @Summary Export metrics as CSV
// @Description Download the extracted metrics of a parse record as a UTF-8 CSV file
// @Tags parse
// @Produce text/csv
// @Param id path string true "Parse record ID (UUID)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Not found"
// @Router /parses/{id}/export [get]
func (h *ParseHandler) ExportCSV(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.parseService.ExportMetricsCSV(c.Request.Context(), id, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid parse record ID")
		return uuid.Nil, false
	}
	return id, true
}
