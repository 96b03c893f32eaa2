// Package server exposes the reconciliation pipeline over HTTP.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rbastia/amadaily/pkg/amadaily"
	"github.com/rbastia/amadaily/pkg/amadaily/parser"
	"github.com/rbastia/amadaily/pkg/amadaily/reconcile"
)

// DefaultMaxUploadBytes caps the uploaded workbook size.
const DefaultMaxUploadBytes = 50 << 20

var allowedExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".xls": true}

// Config configures the upload handler.
type Config struct {
	// MaxUploadBytes rejects larger uploads; DefaultMaxUploadBytes when zero.
	MaxUploadBytes int64
	// WorkDir holds per-request temporary directories; os.TempDir when empty.
	WorkDir string
}

// Handler runs uploaded workbooks through the pipeline.
type Handler struct {
	opts amadaily.Options
	cfg  Config
	log  *slog.Logger
}

// NewHandler creates a Handler. opts supplies the sheet names and defaults
// for every request.
func NewHandler(opts amadaily.Options, cfg Config, log *slog.Logger) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{opts: opts, cfg: cfg, log: log}
}

// NewRouter wires the health and upload routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.POST("/upload", h.Upload)
	return router
}

// Upload handles POST /upload with a multipart "workbook" field holding both
// source sheets. The optional "per_sheet" field enables per-job sheets.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes+1<<20)

	file, err := c.FormFile("workbook")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendError(c, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		h.sendError(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	if file.Size > h.cfg.MaxUploadBytes {
		h.sendError(c, http.StatusRequestEntityTooLarge, "Upload too large", nil)
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		h.sendError(c, http.StatusBadRequest, "Unsupported file type (must be an Excel workbook)", nil)
		return
	}

	dir, err := os.MkdirTemp(h.cfg.WorkDir, "amadaily-*")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to save file", err)
		return
	}
	defer os.RemoveAll(dir)

	saved := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, saved); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to save file", err)
		return
	}

	if missing, err := missingSheets(saved, h.opts.TimesheetSheet, h.opts.JobSheetSheet); err != nil {
		h.sendError(c, http.StatusBadRequest, "Could not open workbook", err)
		return
	} else if len(missing) > 0 {
		h.sendError(c, http.StatusBadRequest,
			fmt.Sprintf("Workbook missing required sheet(s): %s", strings.Join(missing, ", ")), nil)
		return
	}

	opts := h.opts
	opts.PerSheet = c.PostForm("per_sheet") != ""
	opts.OutputDir = dir
	opts.OutputBase = "combined_daily_report"
	opts.WriteCSV = false
	opts.Logger = h.log

	res, err := amadaily.Run(amadaily.WorkbookInputs(saved), opts)
	if err != nil {
		h.sendError(c, statusFor(err), err.Error(), err)
		return
	}
	c.FileAttachment(res.OutputPath, filepath.Base(res.OutputPath))
}

// statusFor maps structural failures to 422 and everything else to 500.
func statusFor(err error) int {
	var layoutErr *parser.LayoutError
	var emptyErr *parser.EmptyResultError
	var schemaErr *reconcile.SchemaError
	if errors.As(err, &layoutErr) || errors.As(err, &emptyErr) || errors.As(err, &schemaErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func missingSheets(path string, required ...string) ([]string, error) {
	sheets, err := parser.SheetList(path)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, name := range sheets {
		present[name] = true
	}
	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

func (h *Handler) sendError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		h.log.Warn("upload failed", "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": message})
}
