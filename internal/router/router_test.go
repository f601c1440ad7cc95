package router

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/handler"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/query"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

const csvHeader = "RollNo,Name,Branch,Year,Email,Phone,DateOfBirth,CGPA,Attendance,Address,Notes\n"

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()

	cfg := &config.Config{GinMode: gin.TestMode, PageSize: 10, MaxUploadBytes: 1 << 20}
	store := repository.NewMemoryStore()
	studentRepo := repository.NewStudentRepository(store)
	settingRepo := repository.NewSettingRepository(store)
	log := zerolog.Nop()

	handlers := &Handlers{
		Student:  handler.NewStudentHandler(service.NewStudentService(studentRepo, query.NewEngine(cfg.PageSize), log), log),
		Transfer: handler.NewTransferHandler(service.NewTransferService(studentRepo, settingRepo, log), cfg.MaxUploadBytes, log),
		Report:   handler.NewReportHandler(service.NewReportService(studentRepo), log),
		Setting:  handler.NewSettingHandler(service.NewSettingService(settingRepo, log), log),
		System:   handler.NewSystemHandler(store, config.StorageMemory, log),
	}
	return SetupRouter(handlers, cfg, nil)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func upload(r *gin.Engine, path, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", filename)
	_, _ = part.Write([]byte(content))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func studentJSON(rollNo, name, branch string) string {
	return `{"rollNo":"` + rollNo + `","name":"` + name + `","branch":"` + branch +
		`","year":"2","email":"` + strings.ToLower(rollNo) + `@example.com","cgpa":"8.5","attendance":90}`
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestStudentLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/students", studentJSON("CS001", "Asha", "Computer Science"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Student model.StudentRecord `json:"student"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	id := created.Student.ID
	require.NotEmpty(t, id)
	assert.Equal(t, 8.5, created.Student.CGPA)

	w = do(r, http.MethodGet, "/api/v1/students/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/students/"+id, `{"name":"Asha K"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"Asha K"`)

	w = do(r, http.MethodPut, "/api/v1/students/"+id, studentJSON("CS001", "Asha R", "Computer Science"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/students", studentJSON("cs001", "Clone", "Computer Science"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrConflict, decode(t, w).Error.Code)

	w = do(r, http.MethodDelete, "/api/v1/students/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/students/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, decode(t, w).Error.Code)
}

func TestCreateStudent_ValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/students", `{"rollNo":"CS001","name":"","branch":"CS","year":"7","email":"bad","phone":"123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	for _, field := range []string{"name", "year", "email", "phone"} {
		assert.Contains(t, env.Error.Fields, field)
	}

	w = do(r, http.MethodPost, "/api/v1/students", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidPayload, decode(t, w).Error.Code)
}

func TestListStudents_QueryPipeline(t *testing.T) {
	r := newTestRouter(t)
	for _, s := range [][3]string{
		{"CS002", "Bilal", "Computer Science"},
		{"EE001", "Ravi", "Electrical"},
		{"CS001", "Asha", "Computer Science"},
	} {
		w := do(r, http.MethodPost, "/api/v1/students", studentJSON(s[0], s[1], s[2]))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(r, http.MethodGet, "/api/v1/students?branch=Computer%20Science&sort=rollNo&dir=desc&per_page=1&page=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.TotalItems)
	assert.Equal(t, 2, env.Pagination.TotalPages)

	var page struct {
		Students []model.StudentRecord `json:"students"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Students, 1)
	assert.Equal(t, "CS001", page.Students[0].RollNo)

	w = do(r, http.MethodGet, "/api/v1/students?search=RAVI", "")
	assert.Equal(t, 1, decode(t, w).Pagination.TotalItems)

	w = do(r, http.MethodGet, "/api/v1/students?sort=secret", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidQuery, decode(t, w).Error.Code)

	w = do(r, http.MethodGet, "/api/v1/students?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/students/branches", "")
	assert.Contains(t, w.Body.String(), `["Computer Science","Electrical"]`)
}

func TestListStudents_HugePaging(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/v1/students", studentJSON("CS001", "Asha", "Computer Science"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/students?page=9223372036854775807&per_page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, query.MaxPageSize, env.Pagination.PerPage)
	assert.Equal(t, 1, env.Pagination.TotalPages)
	assert.JSONEq(t, `{"students":[]}`, string(env.Data))
}

func TestStudentBodyLimit(t *testing.T) {
	r := newTestRouter(t)
	body := `{"rollNo":"CS001","name":"Asha","branch":"CS","year":"2","email":"a@x.com","notes":"` +
		strings.Repeat("x", 70<<10) + `"}`

	w := do(r, http.MethodPost, "/api/v1/students", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, response.ErrPayloadTooLarge, decode(t, w).Error.Code)

	w = do(r, http.MethodGet, "/api/v1/students", "")
	assert.Equal(t, 0, decode(t, w).Pagination.TotalItems)

	w = do(r, http.MethodPost, "/api/v1/students", `{"rollNo":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidPayload, decode(t, w).Error.Code)
}

func TestExport_EmptyAndFilled(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/export/csv", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrEmptyCollection, decode(t, w).Error.Code)

	w = do(r, http.MethodGet, "/api/v1/export/pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/students", studentJSON("CS001", "Asha", "Computer Science")).Code)

	w = do(r, http.MethodGet, "/api/v1/export/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), csvHeader))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = do(r, http.MethodGet, "/api/v1/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version": "1.0.0"`)

	w = do(r, http.MethodGet, "/api/v1/backup/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalRecords":1`)
	assert.NotContains(t, w.Body.String(), `"lastBackup":null`)
}

func TestImportAndRestore(t *testing.T) {
	r := newTestRouter(t)

	w := upload(r, "/api/v1/import", "students.csv", csvHeader+
		"CS001,Asha,Computer Science,2,asha@example.com,,,8.5,90,,\n"+
		"EE001,Ravi,Electrical,3,ravi@example.com,,,7,80,,\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":2`)

	w = upload(r, "/api/v1/import", "bad.csv", "nope,nope\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidFormat, decode(t, w).Error.Code)

	w = upload(r, "/api/v1/restore", "backup.json", `{"version":"2.0.0","students":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrUnsupportedBackup, decode(t, w).Error.Code)

	w = upload(r, "/api/v1/restore", "backup.json", `[{"rollNo":"X1","name":"Only"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidFormat, decode(t, w).Error.Code)

	w = do(r, http.MethodGet, "/api/v1/students", "")
	assert.Equal(t, 2, decode(t, w).Pagination.TotalItems, "failed uploads must not change the collection")

	w = upload(r, "/api/v1/restore", "backup.json",
		`[{"rollNo":"ME001","name":"Meera","branch":"Mechanical","year":1,"email":"m@example.com"}]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/students", "")
	assert.Equal(t, 1, decode(t, w).Pagination.TotalItems)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrFileRequired, decode(t, w).Error.Code)

	w = do(r, http.MethodDelete, "/api/v1/students", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/v1/students", "")
	assert.Equal(t, 0, decode(t, w).Pagination.TotalItems)
}

func TestStatistics(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/reports/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalStudents":0`)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/students", studentJSON("CS001", "Asha", "Computer Science")).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/students", studentJSON("EE001", "Ravi", "Electrical")).Code)

	w = do(r, http.MethodGet, "/api/v1/reports/statistics?department=electrical", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalStudents":1`)
}

func TestThemeSettings(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/settings/theme", "")
	assert.Contains(t, w.Body.String(), `"theme":"light"`)

	w = do(r, http.MethodPut, "/api/v1/settings/theme", `{"theme":"purple"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, decode(t, w).Error.Code)

	w = do(r, http.MethodPut, "/api/v1/settings/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/settings/theme", "")
	assert.Contains(t, w.Body.String(), `"theme":"dark"`)
}
