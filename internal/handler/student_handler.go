package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

// StudentHandler handles student record CRUD and listing.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// ListStudents godoc
// GET /api/v1/students?search=&branch=&year=&department=&sort=&dir=&page=&per_page=
// Searches, filters, sorts and paginates the collection.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var state model.QueryState
	if err := c.ShouldBindQuery(&state); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, validator.TranslateErrors(err))
		return
	}

	result, err := h.studentService.List(c.Request.Context(), state)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": result.Students},
		response.NewPagination(result.Page, result.PerPage, result.TotalItems, result.TotalPages))
}

// ListBranches godoc
// GET /api/v1/students/branches
func (h *StudentHandler) ListBranches(c *gin.Context) {
	branches, err := h.studentService.Branches(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"branches": branches})
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/students
// Validates the form and adds a student with a generated ID.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var in model.StudentInput
	if !bindBody(c, &in) {
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), in)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
// Replaces every editable field; the ID is kept.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var in model.StudentInput
	if !bindBody(c, &in) {
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// PatchStudent godoc
// PATCH /api/v1/students/:id
// Changes only the fields present in the body.
func (h *StudentHandler) PatchStudent(c *gin.Context) {
	var patch model.StudentPatch
	if !bindBody(c, &patch) {
		return
	}

	student, err := h.studentService.Patch(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}

// bindBody decodes a JSON body into dst and writes the failure response when
// it cannot: 413 past the body limit, 400 for anything else.
func bindBody(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
		return false
	}
	response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, validator.TranslateErrors(err))
	return false
}
