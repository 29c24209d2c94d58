package status

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type gateStub struct {
	unlocked bool
}

func (g gateStub) Unlocked(_ *http.Request) bool { return g.unlocked }

func TestHandler_ServeHTTP(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name     string
		unlocked bool
		wantBody string
	}{
		{name: "unlocked session", unlocked: true, wantBody: `{"unlocked":true}`},
		{name: "locked session", unlocked: false, wantBody: `{"unlocked":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(log, gateStub{unlocked: tt.unlocked})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/session/status", nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		})
	}
}
