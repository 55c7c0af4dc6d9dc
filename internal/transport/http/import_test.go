package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"github.com/xkernalwebdev/xkernel-ticket/internal/domain"
)

type stubBatchMinter struct {
	rows     []app.MintInput
	outcomes []app.RowOutcome
}

func (s *stubBatchMinter) MintBatch(_ context.Context, rows []app.MintInput) []app.RowOutcome {
	s.rows = rows
	return s.outcomes
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleImportTickets(t *testing.T) {
	t.Parallel()

	t.Run("reports per-row outcomes", func(t *testing.T) {
		t.Parallel()

		svc := &stubBatchMinter{outcomes: []app.RowOutcome{
			{Row: 1, TicketID: "AAAA1111"},
			{Row: 2, Err: domain.ErrNameRequired},
			{Row: 3, TicketID: "CCCC3333"},
		}}

		csv := "name,email,event\nAlice,a@x.com,Conf\n,b@x.com,Conf\nCarol,c@x.com,Conf\n"
		body, contentType := multipartUpload(t, "attendees.csv", csv)

		req := httptest.NewRequest(http.MethodPost, "/tickets/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		HandleImportTickets(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if len(svc.rows) != 3 {
			t.Fatalf("expected 3 parsed rows, got %d", len(svc.rows))
		}

		var resp importResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Minted != 2 || resp.Failed != 1 {
			t.Fatalf("expected 2 minted and 1 failed, got %+v", resp)
		}
		if resp.Rows[1].Error == "" || resp.Rows[1].Row != 2 {
			t.Fatalf("expected row 2 error, got %+v", resp.Rows[1])
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("other", "x")
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/tickets/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		HandleImportTickets(&stubBatchMinter{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), codeFileRequired) {
			t.Fatalf("expected file required code, got %q", rec.Body.String())
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		body, contentType := multipartUpload(t, "attendees.pdf", "%PDF")
		req := httptest.NewRequest(http.MethodPost, "/tickets/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		HandleImportTickets(&stubBatchMinter{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), codeUnsupportedFile) {
			t.Fatalf("expected unsupported file code, got %q", rec.Body.String())
		}
	})

	t.Run("missing required column", func(t *testing.T) {
		t.Parallel()

		body, contentType := multipartUpload(t, "attendees.csv", "name,event\nAlice,Conf\n")
		req := httptest.NewRequest(http.MethodPost, "/tickets/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		HandleImportTickets(&stubBatchMinter{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), codeInvalidFile) {
			t.Fatalf("expected invalid file code, got %q", rec.Body.String())
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/tickets/import", nil)
		rec := httptest.NewRecorder()
		HandleImportTickets(&stubBatchMinter{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}
