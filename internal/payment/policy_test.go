package payment

import (
	"context"
	"testing"

	"github.com/yashcdw/Crew-Car/internal/trip"
	"github.com/yashcdw/Crew-Car/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWalletService struct{ mock.Mock }

func (m *MockWalletService) Credit(ctx context.Context, userID int, amountCents int64, description string) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Debit(ctx context.Context, userID int, amountCents int64, description string) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Transfer(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error {
	return m.Called(ctx, fromUserID, toUserID, amountCents, description).Error(0)
}

func (m *MockWalletService) Refund(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error {
	return m.Called(ctx, fromUserID, toUserID, amountCents, description).Error(0)
}

func (m *MockWalletService) BalanceOf(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestPolicy_PersonalCarRejectsNonWallet(t *testing.T) {
	for _, method := range []Method{MethodCash, MethodCard} {
		t.Run(string(method), func(t *testing.T) {
			ws := new(MockWalletService)
			policy := NewPolicy(ws)

			err := policy.AuthorizePayment(context.Background(), trip.CategoryPersonalCar, method, 1, 2, 3000, "Personal car trip booking")

			assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
			assert.Contains(t, err.Error(), "personal car trips only accept wallet payments")
			ws.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPolicy_TaxiExternalSettlementSkipsWallet(t *testing.T) {
	for _, method := range []Method{MethodCash, MethodCard} {
		t.Run(string(method), func(t *testing.T) {
			ws := new(MockWalletService)
			policy := NewPolicy(ws)

			err := policy.AuthorizePayment(context.Background(), trip.CategoryTaxi, method, 1, 2, 2500, "Taxi trip booking")

			assert.NoError(t, err)
			ws.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPolicy_TaxiRejectsUnknownMethod(t *testing.T) {
	ws := new(MockWalletService)
	policy := NewPolicy(ws)

	err := policy.AuthorizePayment(context.Background(), trip.CategoryTaxi, Method("cheque"), 1, 2, 2500, "Taxi trip booking")

	assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
	assert.Contains(t, err.Error(), "cash, card or wallet")
}

func TestPolicy_WalletMovesMoney(t *testing.T) {
	ws := new(MockWalletService)
	policy := NewPolicy(ws)

	ws.On("Transfer", mock.Anything, 1, 2, int64(2500), "Taxi trip booking - IST to Taksim").Return(nil)

	err := policy.AuthorizePayment(context.Background(), trip.CategoryTaxi, MethodWallet, 1, 2, 2500, "Taxi trip booking - IST to Taksim")

	assert.NoError(t, err)
	ws.AssertExpectations(t)
}

func TestPolicy_WalletInsufficientFundsPropagates(t *testing.T) {
	ws := new(MockWalletService)
	policy := NewPolicy(ws)

	ws.On("Transfer", mock.Anything, 1, 2, int64(2500), "Taxi trip booking").
		Return(wallet.ErrInsufficientFunds)

	err := policy.AuthorizePayment(context.Background(), trip.CategoryTaxi, MethodWallet, 1, 2, 2500, "Taxi trip booking")

	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
}

func TestPolicy_EmptyMethodDefaultsToWallet(t *testing.T) {
	ws := new(MockWalletService)
	policy := NewPolicy(ws)

	ws.On("Transfer", mock.Anything, 1, 2, int64(3000), "Personal car trip booking").Return(nil)

	err := policy.AuthorizePayment(context.Background(), trip.CategoryPersonalCar, "", 1, 2, 3000, "Personal car trip booking")

	assert.NoError(t, err)
	ws.AssertExpectations(t)
}
