package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-optimizer/internal/lib/identity"
)

type LedgerMock struct {
	mock.Mock
}

func (m *LedgerMock) IsPaid(ctx context.Context, identityHash string) (bool, error) {
	args := m.Called(ctx, identityHash)
	return args.Bool(0), args.Error(1)
}

func (m *LedgerMock) LookupOrder(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

type MinterMock struct {
	mock.Mock
}

func (m *MinterMock) Mint(identityHash string, now time.Time) (string, error) {
	args := m.Called(identityHash, now)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Confirm(t *testing.T) {
	emailHash := identity.HashEmail("a@x.com")
	otherHash := identity.HashEmail("other@x.com")

	tests := []struct {
		name      string
		email     string
		orderID   string
		setup     func(ledger *LedgerMock, tokens *MinterMock)
		wantToken string
		wantErr   error
	}{
		{
			name:    "paid email without order id",
			email:   "a@x.com",
			orderID: "",
			setup: func(ledger *LedgerMock, tokens *MinterMock) {
				ledger.On("IsPaid", mock.Anything, emailHash).Return(true, nil).Once()
				tokens.On("Mint", emailHash, mock.Anything).Return("token123", nil).Once()
			},
			wantToken: "token123",
		},
		{
			name:    "order id matches identity",
			email:   "a@x.com",
			orderID: "123",
			setup: func(ledger *LedgerMock, tokens *MinterMock) {
				ledger.On("LookupOrder", mock.Anything, "123").Return(emailHash, nil).Once()
				ledger.On("IsPaid", mock.Anything, emailHash).Return(true, nil).Once()
				tokens.On("Mint", emailHash, mock.Anything).Return("token123", nil).Once()
			},
			wantToken: "token123",
		},
		{
			name:    "unknown order id is lenient",
			email:   "a@x.com",
			orderID: "not-yet-indexed",
			setup: func(ledger *LedgerMock, tokens *MinterMock) {
				ledger.On("LookupOrder", mock.Anything, "not-yet-indexed").Return("", nil).Once()
				ledger.On("IsPaid", mock.Anything, emailHash).Return(true, nil).Once()
				tokens.On("Mint", emailHash, mock.Anything).Return("token123", nil).Once()
			},
			wantToken: "token123",
		},
		{
			name:    "order mapped to another identity fails even if email paid",
			email:   "a@x.com",
			orderID: "123",
			setup: func(ledger *LedgerMock, _ *MinterMock) {
				ledger.On("LookupOrder", mock.Anything, "123").Return(otherHash, nil).Once()
			},
			wantErr: ErrOrderMismatch,
		},
		{
			name:    "not paid",
			email:   "a@x.com",
			orderID: "",
			setup: func(ledger *LedgerMock, _ *MinterMock) {
				ledger.On("IsPaid", mock.Anything, emailHash).Return(false, nil).Once()
			},
			wantErr: ErrNotPaid,
		},
		{
			name:    "store failure on lookup denies",
			email:   "a@x.com",
			orderID: "123",
			setup: func(ledger *LedgerMock, _ *MinterMock) {
				ledger.On("LookupOrder", mock.Anything, "123").Return("", errors.New("store unavailable")).Once()
			},
			wantErr: errors.New("store unavailable"),
		},
		{
			name:    "store failure on is_paid denies",
			email:   "a@x.com",
			orderID: "",
			setup: func(ledger *LedgerMock, _ *MinterMock) {
				ledger.On("IsPaid", mock.Anything, emailHash).Return(false, errors.New("store unavailable")).Once()
			},
			wantErr: errors.New("store unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(LedgerMock)
			tokens := new(MinterMock)
			tt.setup(ledger, tokens)

			svc := New(newNoopLogger(), ledger, tokens)
			token, err := svc.Confirm(context.Background(), tt.email, tt.orderID)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNotPaid) || errors.Is(tt.wantErr, ErrOrderMismatch) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
			ledger.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
