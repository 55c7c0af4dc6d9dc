package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"github.com/xkernalwebdev/xkernel-ticket/internal/clock"
	"github.com/xkernalwebdev/xkernel-ticket/internal/storage/postgres"
	"github.com/xkernalwebdev/xkernel-ticket/internal/testutil"
)

type noopGateway struct{}

func (noopGateway) Deliver(app.DeliveryJob) app.DeliveryReceipt {
	return app.DeliveryReceipt{ID: "noop", Accepted: true}
}

func TestMintAndVerify_EndToEnd(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := postgres.NewTicketRepository(pool)
	svc := app.NewTicketService(repo, noopGateway{}, clock.NewSystem())

	mux := http.NewServeMux()
	mux.Handle("/tickets", HandleTickets(svc, svc))
	mux.Handle("/verify", HandleVerify(svc))

	// Mint through the API.
	mintReq := httptest.NewRequest(http.MethodPost, "/tickets",
		strings.NewReader(`{"name":"Alice","email":"a@x.com","event":"Conf"}`))
	mintRec := httptest.NewRecorder()
	mux.ServeHTTP(mintRec, mintReq)
	if mintRec.Code != http.StatusCreated {
		t.Fatalf("mint: expected status 201, got %d (%s)", mintRec.Code, mintRec.Body.String())
	}

	var minted struct {
		TicketID string `json:"ticket_id"`
		Payload  string `json:"payload"`
	}
	if err := json.NewDecoder(mintRec.Body).Decode(&minted); err != nil {
		t.Fatalf("decode mint response: %v", err)
	}

	verify := func(payload string) (*httptest.ResponseRecorder, verifyResponse) {
		t.Helper()
		body, _ := json.Marshal(map[string]string{"ticket_data": payload})
		req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(string(body)))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		var resp verifyResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode verify response: %v", err)
		}
		return rec, resp
	}

	// First scan admits.
	rec, resp := verify(minted.Payload)
	if rec.Code != http.StatusOK || !resp.Valid {
		t.Fatalf("first scan: expected admission, got %d %+v", rec.Code, resp)
	}
	if resp.Name != "Alice" || resp.Event != "Conf" || resp.TicketID != minted.TicketID {
		t.Fatalf("first scan: unexpected detail %+v", resp)
	}

	// Second scan of the same code is rejected with operator detail.
	rec, resp = verify(minted.Payload)
	if rec.Code != http.StatusBadRequest || resp.Valid {
		t.Fatalf("second scan: expected rejection, got %d %+v", rec.Code, resp)
	}
	if resp.Message != "Already Used" || resp.Name != "Alice" || resp.ScannedAt == nil {
		t.Fatalf("second scan: unexpected response %+v", resp)
	}

	// Garbage is rejected anonymously.
	rec, resp = verify("garbage-not-a-ticket")
	if rec.Code != http.StatusBadRequest || resp.Valid {
		t.Fatalf("garbage scan: expected rejection, got %d %+v", rec.Code, resp)
	}
	if resp.Name != "" || resp.TicketID != "" {
		t.Fatalf("garbage scan: expected no detail, got %+v", resp)
	}
}
