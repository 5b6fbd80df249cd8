package payment

import (
	"context"
	"testing"

	"github.com/yashcdw/Crew-Car/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletRepo struct{ mock.Mock }

func (m *MockWalletRepo) GetOrCreateWallet(ctx context.Context, userID int) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepo) ApplyDelta(ctx context.Context, userID int, deltaCents int64, txType, description string) (*wallet.Wallet, int, error) {
	args := m.Called(ctx, userID, deltaCents, txType, description)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*wallet.Wallet), args.Int(1), args.Error(2)
}

func (m *MockWalletRepo) AppendTransaction(ctx context.Context, tx *wallet.Transaction) (int, error) {
	args := m.Called(ctx, tx)
	return args.Int(0), args.Error(1)
}

func (m *MockWalletRepo) FindTransactionBySession(ctx context.Context, sessionID string) (*wallet.Transaction, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepo) MarkTransactionStatus(ctx context.Context, txID int, status string) (bool, error) {
	args := m.Called(ctx, txID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepo) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]wallet.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

type MockProvider struct{ mock.Mock }

func (m *MockProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockProvider) GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionStatus), args.Error(1)
}

func pendingTopUp(id, userID int, sessionID string) *wallet.Transaction {
	return &wallet.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        wallet.TypeTopUp,
		AmountCents: 2500,
		Currency:    "TRY",
		Description: "Wallet top-up - Medium package",
		Status:      wallet.StatusPending,
		SessionID:   &sessionID,
	}
}

func TestBridge_StartTopUp_UnknownPackage(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	_, err := bridge.StartTopUp(context.Background(), 1, "mega", "https://crewcar.app")

	assert.ErrorIs(t, err, ErrUnknownPackage)
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}

func TestBridge_StartTopUp_RecordsPendingTransaction(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(p CreateSessionParams) bool {
		return p.AmountCents == 2500 && p.Currency == "TRY" && p.Metadata["package_id"] == "medium"
	})).Return(&CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"}, nil)

	repo.On("AppendTransaction", mock.Anything, mock.MatchedBy(func(tx *wallet.Transaction) bool {
		return tx.Status == wallet.StatusPending &&
			tx.Type == wallet.TypeTopUp &&
			tx.AmountCents == 2500 &&
			tx.SessionID != nil && *tx.SessionID == "cs_test_1"
	})).Return(55, nil)

	session, err := bridge.StartTopUp(context.Background(), 1, "medium", "https://crewcar.app")
	require.NoError(t, err)
	assert.Equal(t, 55, session.TransactionID)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.NotEmpty(t, session.URL)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestBridge_StartTopUp_ProviderDown(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	provider.On("CreateSession", mock.Anything, mock.Anything).
		Return(nil, ErrPaymentUnavailable)

	_, err := bridge.StartTopUp(context.Background(), 1, "small", "https://crewcar.app")

	assert.ErrorIs(t, err, ErrPaymentUnavailable)
	repo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}

func TestBridge_Reconcile_PaidCreditsOnce(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_1").
		Return(pendingTopUp(55, 1, "cs_test_1"), nil)
	provider.On("GetStatus", mock.Anything, "cs_test_1").
		Return(&SessionStatus{Status: "complete", PaymentStatus: "paid", AmountTotal: 2500, Currency: "TRY"}, nil)
	repo.On("MarkTransactionStatus", mock.Anything, 55, wallet.StatusCompleted).Return(true, nil)
	ws.On("Credit", mock.Anything, 1, int64(2500), "Wallet top-up - Medium package").
		Return(&wallet.Wallet{UserID: 1, BalanceCents: 2500}, nil)

	result, err := bridge.Reconcile(context.Background(), "cs_test_1", 1)
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusCompleted, result.Status)
	assert.True(t, result.Credited)
	ws.AssertNumberOfCalls(t, "Credit", 1)
}

func TestBridge_Reconcile_TerminalIsIdempotent(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	completed := pendingTopUp(55, 1, "cs_test_1")
	completed.Status = wallet.StatusCompleted

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_1").Return(completed, nil)

	// Poll repeatedly: the stored terminal status is authoritative.
	for i := 0; i < 3; i++ {
		result, err := bridge.Reconcile(context.Background(), "cs_test_1", 1)
		require.NoError(t, err)
		assert.Equal(t, wallet.StatusCompleted, result.Status)
		assert.True(t, result.Credited)
	}

	provider.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
	ws.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBridge_Reconcile_LostRaceSkipsCredit(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	completed := pendingTopUp(55, 1, "cs_test_1")
	completed.Status = wallet.StatusCompleted

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_1").
		Return(pendingTopUp(55, 1, "cs_test_1"), nil).Once()
	provider.On("GetStatus", mock.Anything, "cs_test_1").
		Return(&SessionStatus{Status: "complete", PaymentStatus: "paid"}, nil)
	repo.On("MarkTransactionStatus", mock.Anything, 55, wallet.StatusCompleted).Return(false, nil)
	repo.On("FindTransactionBySession", mock.Anything, "cs_test_1").
		Return(completed, nil).Once()

	result, err := bridge.Reconcile(context.Background(), "cs_test_1", 1)
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusCompleted, result.Status)
	ws.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBridge_Reconcile_ExpiredFailsWithoutCredit(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_2").
		Return(pendingTopUp(56, 1, "cs_test_2"), nil)
	provider.On("GetStatus", mock.Anything, "cs_test_2").
		Return(&SessionStatus{Status: "expired", PaymentStatus: "unpaid"}, nil)
	repo.On("MarkTransactionStatus", mock.Anything, 56, wallet.StatusFailed).Return(true, nil)

	result, err := bridge.Reconcile(context.Background(), "cs_test_2", 1)
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusFailed, result.Status)
	assert.False(t, result.Credited)
	ws.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBridge_Reconcile_WrongUser(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_1").
		Return(pendingTopUp(55, 1, "cs_test_1"), nil)

	_, err := bridge.Reconcile(context.Background(), "cs_test_1", 2)
	assert.ErrorIs(t, err, wallet.ErrTransactionNotFound)
}

func TestBridge_Reconcile_StillOpen(t *testing.T) {
	repo := new(MockWalletRepo)
	ws := new(MockWalletService)
	provider := new(MockProvider)
	bridge := NewBridge(repo, ws, provider)

	repo.On("FindTransactionBySession", mock.Anything, "cs_test_3").
		Return(pendingTopUp(57, 1, "cs_test_3"), nil)
	provider.On("GetStatus", mock.Anything, "cs_test_3").
		Return(&SessionStatus{Status: "open", PaymentStatus: "unpaid"}, nil)

	result, err := bridge.Reconcile(context.Background(), "cs_test_3", 1)
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusPending, result.Status)
	repo.AssertNotCalled(t, "MarkTransactionStatus", mock.Anything, mock.Anything, mock.Anything)
}
