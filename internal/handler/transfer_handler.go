package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/codec"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
)

// TransferHandler handles import, export, backup and restore.
type TransferHandler struct {
	transferService *service.TransferService
	maxUpload       int64
	log             zerolog.Logger
}

// NewTransferHandler creates a new TransferHandler. Uploads larger than
// maxUpload bytes are rejected.
func NewTransferHandler(transferService *service.TransferService, maxUpload int64, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		maxUpload:       maxUpload,
		log:             log.With().Str("component", "transfer_handler").Logger(),
	}
}

// Export godoc
// GET /api/v1/export/:format
// Downloads the collection as csv, json or xlsx.
func (h *TransferHandler) Export(c *gin.Context) {
	format, err := codec.ParseFormat(c.Param("format"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	file, err := h.transferService.Export(c.Request.Context(), format)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	attach(c, file)
}

// Backup godoc
// GET /api/v1/backup
// Downloads the versioned backup envelope.
func (h *TransferHandler) Backup(c *gin.Context) {
	file, err := h.transferService.Backup(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	attach(c, file)
}

// BackupInfo godoc
// GET /api/v1/backup/info
func (h *TransferHandler) BackupInfo(c *gin.Context) {
	info, err := h.transferService.BackupInfo(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"info": info})
}

// Import godoc
// POST /api/v1/import (multipart: file, optional format)
// Appends the records in the uploaded file.
func (h *TransferHandler) Import(c *gin.Context) {
	h.upload(c, h.transferService.Import)
}

// Restore godoc
// POST /api/v1/restore (multipart: file, optional format)
// Replaces the collection with the records in the uploaded file.
func (h *TransferHandler) Restore(c *gin.Context) {
	h.upload(c, h.transferService.Restore)
}

// ClearStudents godoc
// DELETE /api/v1/students
// Removes every record.
func (h *TransferHandler) ClearStudents(c *gin.Context) {
	if err := h.transferService.Clear(c.Request.Context()); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "all student data cleared"})
}

type commitFunc func(ctx context.Context, filename string, data []byte, format codec.Format) (*model.ImportResult, error)

func (h *TransferHandler) upload(c *gin.Context, commit commitFunc) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	var format codec.Format
	if raw := c.PostForm("format"); raw != "" {
		if format, err = codec.ParseFormat(raw); err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
			return
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	result, err := commit(c.Request.Context(), fileHeader.Filename, data, format)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func attach(c *gin.Context, file *service.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
