package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// AttendanceExporter is the minimal interface needed for the CSV export.
type AttendanceExporter interface {
	ExportAttendance(ctx context.Context, w io.Writer) error
}

// HandleExportAttendance returns an HTTP handler serving the attendance
// report as a CSV download. The report is built in memory first so a
// storage failure can still produce a proper error status.
func HandleExportAttendance(svc AttendanceExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var buf bytes.Buffer
		if err := svc.ExportAttendance(r.Context(), &buf); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, &buf)
	}
}
