package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"github.com/xkernalwebdev/xkernel-ticket/internal/importer"
)

const maxImportBytes = 10 << 20

// BatchMinter is the minimal interface needed for a spreadsheet import.
type BatchMinter interface {
	MintBatch(ctx context.Context, rows []app.MintInput) []app.RowOutcome
}

type importRowResponse struct {
	Row      int    `json:"row"`
	TicketID string `json:"ticket_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type importResponse struct {
	Minted int                 `json:"minted"`
	Failed int                 `json:"failed"`
	Rows   []importRowResponse `json:"rows"`
}

// HandleImportTickets returns an HTTP handler for bulk mint from an
// uploaded CSV or XLSX file. Row failures are reported per row; only a
// file-level problem (bad format, missing column) fails the request.
func HandleImportTickets(svc BatchMinter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, codeFileRequired, "file field required")
			return
		}
		defer func() { _ = file.Close() }()

		rows, err := importer.ReadRows(header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, importer.ErrUnsupportedFormat):
				writeError(w, http.StatusBadRequest, codeUnsupportedFile, err.Error())
			case errors.Is(err, importer.ErrMissingColumn), errors.Is(err, importer.ErrNoHeaderRow):
				writeError(w, http.StatusBadRequest, codeInvalidFile, err.Error())
			default:
				writeError(w, http.StatusBadRequest, codeInvalidFile, "could not parse file")
			}
			return
		}

		outcomes := svc.MintBatch(r.Context(), rows)

		resp := importResponse{Rows: make([]importRowResponse, 0, len(outcomes))}
		for _, out := range outcomes {
			row := importRowResponse{Row: out.Row, TicketID: out.TicketID}
			if out.Err != nil {
				row.Error = out.Err.Error()
				resp.Failed++
			} else {
				resp.Minted++
			}
			resp.Rows = append(resp.Rows, row)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
