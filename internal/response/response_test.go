package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, reqID string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSuccessWithPagination(t *testing.T) {
	w := serve(func(c *gin.Context) {
		SuccessWithPagination(c, http.StatusOK, []string{"a"}, NewPagination(1, 10, 1, 1))
	}, "req-1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.Error)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.TotalPages)
}

func TestFailWithFields(t *testing.T) {
	w := serve(func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"email": "email is a required field"})
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrValidation, body.Error.Code)
	assert.Equal(t, GetMessage(ErrValidation), body.Error.Message)
	assert.Equal(t, "email is a required field", body.Error.Fields["email"])
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("NOPE"))
}

func TestRequestIDMiddleware_ReusesSafeIDs(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		reuse bool
	}{
		{"uuid", "0d6f1c3e-9a53-4a0c-8f43-2a8a4d0e1b7c", true},
		{"trace style", "web.client:42_a", true},
		{"empty", "", false},
		{"header injection", "abc\r\nSet-Cookie: x=1", false},
		{"spaces", "my request", false},
		{"too long", strings.Repeat("a", 65), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			w := serve(func(c *gin.Context) {
				seen = RequestID(c)
				Success(c, http.StatusOK, nil)
			}, tc.in)

			got := w.Header().Get(HeaderRequestID)
			assert.Equal(t, got, seen)
			if tc.reuse {
				assert.Equal(t, tc.in, got)
				return
			}
			assert.NotEqual(t, tc.in, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestBuildMetadata_WithoutMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrNotFound) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Metadata.RequestID)
	assert.Nil(t, body.Data)
}
