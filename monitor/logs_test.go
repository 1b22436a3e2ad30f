package monitor

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTailLines(t *testing.T) {
	in := "a\nb\nc\nd\ne\n"
	got, err := TailLines(strings.NewReader(in), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got, ",") != "c,d,e" {
		t.Fatalf("unexpected tail %v", got)
	}

	got, _ = TailLines(strings.NewReader("x\ny\n"), 10)
	if strings.Join(got, ",") != "x,y" {
		t.Fatalf("short input should be returned whole, got %v", got)
	}

	got, _ = TailLines(strings.NewReader(in), 0)
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func newLogsRouter(path string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/logs", LogsHandler(func() string { return path }))
	return r
}

func TestLogsHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	r := newLogsRouter(path)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs?lines=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "two\nthree\n" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs?lines=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLogsHandlerMissingFile(t *testing.T) {
	r := newLogsRouter(filepath.Join(t.TempDir(), "missing.log"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
