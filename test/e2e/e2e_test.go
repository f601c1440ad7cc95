//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/studentflow/studentflow-backend/internal/model"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

var (
	baseURL string
	client  = &http.Client{Timeout: 10 * time.Second}
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Start from an empty collection.
	resp, err := request(http.MethodDelete, "/students", nil, "")
	if err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()

	os.Exit(m.Run())
}

func TestE2EFlow(t *testing.T) {
	var studentID string

	t.Run("CreateStudent", func(t *testing.T) {
		resp := mustRequest(t, http.MethodPost, "/students", model.StudentInput{
			RollNo: "E2E001", Name: "E2E Student", Branch: "Computer Science",
			Year: "3", Email: "e2e@example.com", CGPA: "8.9", Attendance: "91",
		})
		expectStatus(t, resp, http.StatusCreated)

		var body struct {
			Data struct {
				Student model.StudentRecord `json:"student"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		studentID = body.Data.Student.ID
		if studentID == "" {
			t.Fatal("id missing")
		}
	})

	t.Run("CreateDuplicateStudent", func(t *testing.T) {
		resp := mustRequest(t, http.MethodPost, "/students", model.StudentInput{
			RollNo: "e2e001", Name: "Clone", Branch: "Computer Science",
			Year: "3", Email: "clone@example.com",
		})
		expectStatus(t, resp, http.StatusConflict)
	})

	t.Run("SearchStudents", func(t *testing.T) {
		resp := mustRequest(t, http.MethodGet, "/students?search=e2e&sort=name", nil)
		expectStatus(t, resp, http.StatusOK)

		var body struct {
			Pagination struct {
				TotalItems int `json:"total_items"`
			} `json:"pagination"`
		}
		decodeJSON(t, resp, &body)
		if body.Pagination.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", body.Pagination.TotalItems)
		}
	})

	var backup []byte
	t.Run("Backup", func(t *testing.T) {
		resp := mustRequest(t, http.MethodGet, "/backup", nil)
		expectStatus(t, resp, http.StatusOK)
		backup = []byte(readBody(resp))
		if !strings.Contains(string(backup), `"version": "1.0.0"`) {
			t.Fatalf("unexpected backup: %s", backup)
		}
	})

	t.Run("DeleteStudent", func(t *testing.T) {
		resp := mustRequest(t, http.MethodDelete, "/students/"+studentID, nil)
		expectStatus(t, resp, http.StatusOK)

		resp = mustRequest(t, http.MethodGet, "/students/"+studentID, nil)
		expectStatus(t, resp, http.StatusNotFound)
	})

	t.Run("RestoreBackup", func(t *testing.T) {
		resp := mustUpload(t, "/restore", "backup.json", backup)
		expectStatus(t, resp, http.StatusOK)

		resp = mustRequest(t, http.MethodGet, "/students/"+studentID, nil)
		expectStatus(t, resp, http.StatusOK)
	})

	t.Run("Statistics", func(t *testing.T) {
		resp := mustRequest(t, http.MethodGet, "/reports/statistics", nil)
		expectStatus(t, resp, http.StatusOK)

		var body struct {
			Data struct {
				Report model.Report `json:"report"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Report.TotalStudents != 1 || body.Data.Report.PerformanceDistribution.Excellent != 1 {
			t.Fatalf("unexpected report: %+v", body.Data.Report)
		}
	})

	t.Run("ExportXLSX", func(t *testing.T) {
		resp := mustRequest(t, http.MethodGet, "/export/xlsx", nil)
		expectStatus(t, resp, http.StatusOK)
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
			t.Fatalf("unexpected content type %q", ct)
		}
		resp.Body.Close()
	})

	t.Run("ClearAll", func(t *testing.T) {
		resp := mustRequest(t, http.MethodDelete, "/students", nil)
		expectStatus(t, resp, http.StatusOK)

		resp = mustRequest(t, http.MethodGet, "/export/csv", nil)
		expectStatus(t, resp, http.StatusConflict)
	})
}

func request(method, path string, body interface{}, contentType string) (*http.Response, error) {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		bodyReader = bytes.NewReader(b)
	default:
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBytes)
		contentType = "application/json"
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return client.Do(req)
}

func mustRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	resp, err := request(method, path, body, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func mustUpload(t *testing.T, path, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()

	resp, err := request(http.MethodPost, path, buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		defer resp.Body.Close()
		t.Fatalf("status %d (want %d): %s", resp.StatusCode, want, readBody(resp))
	}
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
