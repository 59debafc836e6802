package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

type MockStatusProvider struct {
	mock.Mock
}

func (m *MockStatusProvider) AccountStatus(ctx context.Context, bearer string) (*backend.AccountStatus, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.AccountStatus), args.Error(1)
}

type failingTokens struct{ err error }

func (f failingTokens) Token(context.Context) (string, error) { return "", f.err }

func TestEvaluator_Evaluate(t *testing.T) {
	ident := session.NewIdentity("s1", "u1", "u@example.com", session.StaticToken("tok"))

	tests := []struct {
		name       string
		ident      *session.Identity
		setupMocks func(*MockStatusProvider)
		want       State
		wantErr    bool
	}{
		{
			name:       "signed out never calls backend",
			ident:      nil,
			setupMocks: func(*MockStatusProvider) {},
			want:       Unauthenticated,
		},
		{
			name:  "pending",
			ident: ident,
			setupMocks: func(m *MockStatusProvider) {
				m.On("AccountStatus", mock.Anything, "tok").Return(&backend.AccountStatus{Verification: "pending", Subscription: "active"}, nil).Once()
			},
			want: AwaitingVerification,
		},
		{
			name:  "verified unpaid",
			ident: ident,
			setupMocks: func(m *MockStatusProvider) {
				m.On("AccountStatus", mock.Anything, "tok").Return(&backend.AccountStatus{Verification: "verified", Subscription: "none"}, nil).Once()
			},
			want: VerifiedUnpaid,
		},
		{
			name:  "active",
			ident: ident,
			setupMocks: func(m *MockStatusProvider) {
				m.On("AccountStatus", mock.Anything, "tok").Return(&backend.AccountStatus{Verification: "verified", Subscription: "active"}, nil).Once()
			},
			want: Active,
		},
		{
			name:  "backend rejects token",
			ident: ident,
			setupMocks: func(m *MockStatusProvider) {
				m.On("AccountStatus", mock.Anything, "tok").Return(nil, backend.ErrUnauthorized).Once()
			},
			want: Unauthenticated,
		},
		{
			name:  "backend failure",
			ident: ident,
			setupMocks: func(m *MockStatusProvider) {
				m.On("AccountStatus", mock.Anything, "tok").Return(nil, errors.New("timeout")).Once()
			},
			wantErr: true,
		},
		{
			name:       "session vanished",
			ident:      session.NewIdentity("s1", "u1", "", failingTokens{err: session.ErrSignedOut}),
			setupMocks: func(*MockStatusProvider) {},
			want:       Unauthenticated,
		},
		{
			name:       "token refresh failure",
			ident:      session.NewIdentity("s1", "u1", "", failingTokens{err: errors.New("refresh failed")}),
			setupMocks: func(*MockStatusProvider) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses := new(MockStatusProvider)
			tt.setupMocks(statuses)
			evaluator := NewEvaluator(statuses, sl.Discard())

			got, err := evaluator.Evaluate(context.Background(), tt.ident)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotEqual(t, Active, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			statuses.AssertExpectations(t)
		})
	}
}

func TestEvaluator_InputsKeepsVerification(t *testing.T) {
	statuses := new(MockStatusProvider)
	statuses.On("AccountStatus", mock.Anything, "tok").Return(&backend.AccountStatus{Verification: "rejected", Subscription: "bogus"}, nil).Once()
	evaluator := NewEvaluator(statuses, sl.Discard())

	in, err := evaluator.Inputs(context.Background(), session.NewIdentity("s1", "u1", "", session.StaticToken("tok")))
	require.NoError(t, err)
	assert.Equal(t, Inputs{SignedIn: true, Verification: VerificationRejected, Subscription: SubscriptionNone}, in)
	assert.Equal(t, AwaitingVerification, Decide(in))
}
