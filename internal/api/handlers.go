package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/adapters/export"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/api/dto"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/application/ingest"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/domain/matcher"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleReconcile accepts a multipart batch and runs it end to end.
// Files arrive under the "invoices" and "statements" keys; tolerances may be
// overridden per request with the "day_tolerance" and "amount_tolerance"
// form fields.
func (s *Server) handleReconcile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("expected multipart form data"))
		return
	}

	invoiceFiles := form.File["invoices"]
	statementFiles := form.File["statements"]
	if len(invoiceFiles) == 0 || len(statementFiles) == 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationError("need at least one invoice file and one statement file"))
		return
	}

	cfg, err := s.matchConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	var docs []ingest.Document
	for _, fh := range invoiceFiles {
		doc, err := readDocument(fh, ingest.RoleInvoice)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
		docs = append(docs, doc)
	}
	for _, fh := range statementFiles {
		doc, err := readDocument(fh, ingest.RoleMovement)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
		docs = append(docs, doc)
	}

	run, err := s.reconciles.Reconcile(c.Request.Context(), docs, cfg)
	if err != nil {
		s.logger.Error("reconcile failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	resp, _ := dto.NewRunResponse(run, "all")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.reconciles.GetRun(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	resp, ok := dto.NewRunResponse(run, c.Query("filter"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ValidationError("filter must be one of: all, matched, unmatched"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleToggleResult(c *gin.Context) {
	runID := c.Param("id")
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("seq must be an integer"))
		return
	}

	result, summary, err := s.reconciles.ToggleResult(runID, seq)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("result"))
		return
	}

	c.JSON(http.StatusOK, dto.ToggleResponse{Result: result, Summary: summary})
}

func (s *Server) handleExportUnmatched(c *gin.Context) {
	results, err := s.reconciles.UnmatchedResults(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	filename := fmt.Sprintf("facturas_no_conciliadas_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := export.WriteUnmatchedCSV(c.Writer, results); err != nil {
		s.logger.Error("csv export failed", "run_id", c.Param("id"), "error", err)
	}
}

// matchConfig resolves per-request tolerance overrides against the server
// defaults.
func (s *Server) matchConfig(c *gin.Context) (matcher.Config, error) {
	cfg := s.config.Matching

	if v := c.PostForm("day_tolerance"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return cfg, fmt.Errorf("day_tolerance must be a non-negative integer")
		}
		cfg.DayTolerance = days
	}
	if v := c.PostForm("amount_tolerance"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil || amount < 0 {
			return cfg, fmt.Errorf("amount_tolerance must be a non-negative number")
		}
		cfg.AmountTolerance = amount
	}
	return cfg, nil
}

func readDocument(fh *multipart.FileHeader, role ingest.Role) (ingest.Document, error) {
	format, ok := ingest.FormatForFilename(fh.Filename)
	if !ok {
		return ingest.Document{}, fmt.Errorf("unsupported file type: %s", fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return ingest.Document{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ingest.Document{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return ingest.Document{
		Name:   fh.Filename,
		Role:   role,
		Format: format,
		Data:   data,
	}, nil
}
