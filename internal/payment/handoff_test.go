package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
	"github.com/magabrotheeeer/therapy-booking-front/internal/session"
)

type MockInitiator struct {
	mock.Mock
}

func (m *MockInitiator) InitiateCheckout(ctx context.Context, bearer string, amount int64) (*backend.CheckoutResponse, error) {
	args := m.Called(ctx, bearer, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.CheckoutResponse), args.Error(1)
}

type errTokens struct{ err error }

func (e errTokens) Token(context.Context) (string, error) { return "", e.err }

func signedIn() *session.Identity {
	return session.NewIdentity("s1", "u1", "u@example.com", session.StaticToken("bearer-1"))
}

func TestHandoff_Initiate(t *testing.T) {
	tests := []struct {
		name       string
		ident      *session.Identity
		amount     int64
		setupMocks func(*MockInitiator)
		wantErr    error
		anyErr     bool
	}{
		{
			name:       "no identity",
			ident:      nil,
			amount:     15000,
			setupMocks: func(*MockInitiator) {},
			wantErr:    ErrAuthenticationRequired,
		},
		{
			name:       "zero amount",
			ident:      signedIn(),
			amount:     0,
			setupMocks: func(*MockInitiator) {},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "negative amount",
			ident:      signedIn(),
			amount:     -5,
			setupMocks: func(*MockInitiator) {},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "session gone while fetching token",
			ident:      session.NewIdentity("s1", "u1", "", errTokens{err: session.ErrSignedOut}),
			amount:     15000,
			setupMocks: func(*MockInitiator) {},
			wantErr:    ErrAuthenticationRequired,
		},
		{
			name:       "token refresh failure",
			ident:      session.NewIdentity("s1", "u1", "", errTokens{err: errors.New("refresh down")}),
			amount:     15000,
			setupMocks: func(*MockInitiator) {},
			anyErr:     true,
		},
		{
			name:   "missing url",
			ident:  signedIn(),
			amount: 15000,
			setupMocks: func(m *MockInitiator) {
				m.On("InitiateCheckout", mock.Anything, "bearer-1", int64(15000)).Return(&backend.CheckoutResponse{Token: "abc"}, nil).Once()
			},
			wantErr: ErrIncompleteHandshake,
		},
		{
			name:   "missing token",
			ident:  signedIn(),
			amount: 15000,
			setupMocks: func(m *MockInitiator) {
				m.On("InitiateCheckout", mock.Anything, "bearer-1", int64(15000)).Return(&backend.CheckoutResponse{URL: "https://pay/x"}, nil).Once()
			},
			wantErr: ErrIncompleteHandshake,
		},
		{
			name:   "backend rejects token",
			ident:  signedIn(),
			amount: 15000,
			setupMocks: func(m *MockInitiator) {
				m.On("InitiateCheckout", mock.Anything, "bearer-1", int64(15000)).Return(nil, fmt.Errorf("wrapped: %w", backend.ErrUnauthorized)).Once()
			},
			wantErr: ErrAuthenticationRequired,
		},
		{
			name:   "network failure",
			ident:  signedIn(),
			amount: 15000,
			setupMocks: func(m *MockInitiator) {
				m.On("InitiateCheckout", mock.Anything, "bearer-1", int64(15000)).Return(nil, errors.New("connection reset")).Once()
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initiator := new(MockInitiator)
			tt.setupMocks(initiator)
			handoff := NewHandoff(initiator, sl.Discard())

			transfer, err := handoff.Initiate(context.Background(), tt.ident, tt.amount)
			assert.Nil(t, transfer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.anyErr {
				assert.Error(t, err)
			}
			initiator.AssertExpectations(t)
		})
	}
}

func TestHandoff_NoNetworkCallWithoutIdentityOrAmount(t *testing.T) {
	initiator := new(MockInitiator)
	handoff := NewHandoff(initiator, sl.Discard())

	for _, amount := range []int64{-1, 0, 15000} {
		_, err := handoff.Initiate(context.Background(), nil, amount)
		assert.ErrorIs(t, err, ErrAuthenticationRequired)
	}
	for _, amount := range []int64{-100, 0} {
		_, err := handoff.Initiate(context.Background(), signedIn(), amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	initiator.AssertNumberOfCalls(t, "InitiateCheckout", 0)
}

func TestHandoff_BuildsGatewayForm(t *testing.T) {
	initiator := new(MockInitiator)
	initiator.On("InitiateCheckout", mock.Anything, "bearer-1", int64(15000)).
		Return(&backend.CheckoutResponse{URL: "https://pay/x", Token: "abc"}, nil).Once()
	handoff := NewHandoff(initiator, sl.Discard())

	transfer, err := handoff.Initiate(context.Background(), signedIn(), 15000)
	require.NoError(t, err)

	assert.Equal(t, "https://pay/x", transfer.Action)
	assert.Equal(t, "POST", transfer.Method)
	assert.Equal(t, map[string]string{"token_ws": "abc"}, transfer.Fields)
	initiator.AssertExpectations(t)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Result
	}{
		{name: "paid", query: "orden=ORD1&estado=pagado", want: Result{OrderID: "ORD1", Outcome: OutcomePaid}},
		{name: "rejected", query: "orden=ORD1&estado=rechazado", want: Result{OrderID: "ORD1", Outcome: OutcomeFailed}},
		{name: "case sensitive code", query: "orden=ORD1&estado=PAGADO", want: Result{OrderID: "ORD1", Outcome: OutcomeFailed}},
		{name: "missing estado", query: "orden=ORD1", want: Result{OrderID: "ORD1", Outcome: OutcomeBroken}},
		{name: "missing orden", query: "estado=pagado", want: Result{Outcome: OutcomeBroken}},
		{name: "empty estado", query: "orden=ORD1&estado=", want: Result{OrderID: "ORD1", Outcome: OutcomeBroken}},
		{name: "nothing", query: "", want: Result{Outcome: OutcomeBroken}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(q))
		})
	}
}
