package generate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-optimizer/internal/metrics"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
	"github.com/magabrotheeeer/resume-optimizer/internal/services/access"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Generate(ctx context.Context, req models.GenerateRequest, preview bool) (*models.GenerateResult, error) {
	args := m.Called(ctx, req, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerateResult), args.Error(1)
}

type GateMock struct {
	mock.Mock
}

func (m *GateMock) Resolve(r *http.Request, requestedPreview bool) access.Decision {
	args := m.Called(r, requestedPreview)
	return args.Get(0).(access.Decision)
}

func (m *GateMock) Admit(ctx context.Context, d access.Decision) (time.Duration, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(time.Duration), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validBody = `{"profile": {"fullName": "Jane Roe", "title": "Analyst"}, "lang": "en"}`

func TestHandler_ServeHTTP(t *testing.T) {
	full := access.Decision{ClientID: "1.2.3.4", IdentityHash: "hash", Tier: models.TierFull}
	preview := access.Decision{ClientID: "1.2.3.4", Tier: models.TierPreview}

	tests := []struct {
		name       string
		body       string
		setup      func(service *ServiceMock, gate *GateMock)
		wantStatus int
		wantInBody string
	}{
		{
			name: "full tier generation",
			body: validBody,
			setup: func(service *ServiceMock, gate *GateMock) {
				gate.On("Resolve", mock.Anything, false).Return(full).Once()
				gate.On("Admit", mock.Anything, full).Return(time.Duration(0), nil).Once()
				service.On("Generate", mock.Anything, mock.Anything, false).
					Return(&models.GenerateResult{CVData: &models.CVData{Summary: "- ok"}, Preview: false}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantInBody: `"preview":false`,
		},
		{
			name: "missing session forces preview generation",
			body: validBody,
			setup: func(service *ServiceMock, gate *GateMock) {
				gate.On("Resolve", mock.Anything, false).Return(preview).Once()
				gate.On("Admit", mock.Anything, preview).Return(time.Duration(0), nil).Once()
				service.On("Generate", mock.Anything, mock.Anything, true).
					Return(&models.GenerateResult{CVData: &models.CVData{}, Preview: true}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantInBody: `"preview":true`,
		},
		{
			name:       "missing profile",
			body:       `{"lang": "en"}`,
			setup:      func(service *ServiceMock, gate *GateMock) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "required",
		},
		{
			name: "rate limited",
			body: validBody,
			setup: func(service *ServiceMock, gate *GateMock) {
				gate.On("Resolve", mock.Anything, false).Return(preview).Once()
				gate.On("Admit", mock.Anything, preview).
					Return(7*time.Second, access.ErrRateLimited).Once()
			},
			wantStatus: http.StatusTooManyRequests,
			wantInBody: `"retry_after_seconds":7`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			gate := new(GateMock)
			tt.setup(service, gate)

			h := New(newNoopLogger(), service, gate, metrics.New(prometheus.NewRegistry()))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/generate", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantInBody)
			service.AssertExpectations(t)
			gate.AssertExpectations(t)
		})
	}
}
