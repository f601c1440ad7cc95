package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/codec"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

// failWithError maps a service error onto the response envelope. Anything
// unrecognized is logged and reported as an internal error.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		fields   validator.FieldErrors
		missing  *codec.MissingFieldError
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &fields):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
	case errors.Is(err, repository.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateRollNo):
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict, map[string]string{"rollNo": err.Error()})
	case errors.Is(err, codec.ErrEmptyCollection):
		response.Fail(c, http.StatusConflict, response.ErrEmptyCollection)
	case errors.Is(err, service.ErrInvalidSortKey):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, map[string]string{"sort": err.Error()})
	case errors.As(err, &missing):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFormat, map[string]string{missing.Field: err.Error()})
	case errors.Is(err, codec.ErrUnknownFormat):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, codec.ErrUnsupportedVersion):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedBackup)
	case errors.Is(err, codec.ErrNoValidRecords):
		response.Fail(c, http.StatusBadRequest, response.ErrNoValidRecords)
	case errors.Is(err, codec.ErrFormat):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFormat, map[string]string{"detail": err.Error()})
	case errors.As(err, &tooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	default:
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", response.RequestID(c)).
			Msg("request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
