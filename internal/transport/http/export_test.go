package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubExporter struct {
	csv string
	err error
}

func (s *stubExporter) ExportAttendance(_ context.Context, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.csv)
	return err
}

func TestHandleExportAttendance(t *testing.T) {
	t.Parallel()

	t.Run("serves csv download", func(t *testing.T) {
		t.Parallel()

		svc := &stubExporter{csv: "ticket_id,name\nAB12CD34,Alice\n"}
		req := httptest.NewRequest(http.MethodGet, "/tickets/export", nil)
		rec := httptest.NewRecorder()
		HandleExportAttendance(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
			t.Fatalf("expected csv content type, got %q", got)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attendance.csv") {
			t.Fatalf("expected attachment disposition, got %q", got)
		}
		if rec.Body.String() != svc.csv {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("store failure yields 500, no partial body", func(t *testing.T) {
		t.Parallel()

		svc := &stubExporter{err: errors.New("store unavailable")}
		req := httptest.NewRequest(http.MethodGet, "/tickets/export", nil)
		rec := httptest.NewRecorder()
		HandleExportAttendance(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), codeInternalError) {
			t.Fatalf("expected error body, got %q", rec.Body.String())
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/tickets/export", nil)
		rec := httptest.NewRecorder()
		HandleExportAttendance(&stubExporter{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}
