package payment

import (
	"context"
	"strconv"
	"strings"

	"github.com/yashcdw/Crew-Car/internal/logger"
	"github.com/yashcdw/Crew-Car/internal/metrics"
	"github.com/yashcdw/Crew-Car/internal/wallet"
)

type TopUpSession struct {
	TransactionID int    `json:"transaction_id"`
	SessionID     string `json:"session_id"`
	URL           string `json:"url"`
}

type ReconcileResult struct {
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Credited    bool   `json:"credited"`
}

// Bridge turns hosted-checkout outcomes into ledger state. It never accepts
// client-supplied amounts: top-ups are restricted to the fixed package table.
type Bridge struct {
	repo     wallet.Repository
	wallet   wallet.Service
	provider CheckoutProvider
}

func NewBridge(repo wallet.Repository, walletSvc wallet.Service, provider CheckoutProvider) *Bridge {
	return &Bridge{repo: repo, wallet: walletSvc, provider: provider}
}

// StartTopUp creates a checkout session for the package and records a
// pending transaction carrying the session id before returning the URL.
func (b *Bridge) StartTopUp(ctx context.Context, userID int, packageID, originURL string) (*TopUpSession, error) {
	pkg, err := FindPackage(packageID)
	if err != nil {
		return nil, err
	}

	originURL = strings.TrimSuffix(originURL, "/")
	sess, err := b.provider.CreateSession(ctx, CreateSessionParams{
		AmountCents: pkg.AmountCents,
		Currency:    pkg.Currency,
		ProductName: "CrewCar Wallet - " + pkg.Name,
		SuccessURL:  originURL + "/wallet?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   originURL + "/wallet",
		Metadata: map[string]string{
			"user_id":    strconv.Itoa(userID),
			"package_id": pkg.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	sessionID := sess.SessionID
	txID, err := b.repo.AppendTransaction(ctx, &wallet.Transaction{
		UserID:      userID,
		Type:        wallet.TypeTopUp,
		AmountCents: pkg.AmountCents,
		Currency:    pkg.Currency,
		Description: "Wallet top-up - " + pkg.Name,
		Status:      wallet.StatusPending,
		SessionID:   &sessionID,
	})
	if err != nil {
		return nil, err
	}

	return &TopUpSession{TransactionID: txID, SessionID: sessionID, URL: sess.URL}, nil
}

// Reconcile converts the provider's reported outcome into ledger state.
// Terminal transactions are returned as stored, so polling the same session
// any number of times credits the wallet at most once.
func (b *Bridge) Reconcile(ctx context.Context, sessionID string, userID int) (*ReconcileResult, error) {
	t, err := b.repo.FindTransactionBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, wallet.ErrTransactionNotFound
	}

	if t.Status != wallet.StatusPending {
		return &ReconcileResult{
			Status:      t.Status,
			AmountCents: t.AmountCents,
			Credited:    t.Status == wallet.StatusCompleted,
		}, nil
	}

	status, err := b.provider.GetStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case status.PaymentStatus == "paid":
		// The conditional flip is the mutex between concurrent pollers:
		// only the winner applies the credit.
		won, err := b.repo.MarkTransactionStatus(ctx, t.ID, wallet.StatusCompleted)
		if err != nil {
			return nil, err
		}
		if !won {
			stored, err := b.repo.FindTransactionBySession(ctx, sessionID)
			if err != nil {
				return nil, err
			}
			return &ReconcileResult{
				Status:      stored.Status,
				AmountCents: stored.AmountCents,
				Credited:    stored.Status == wallet.StatusCompleted,
			}, nil
		}

		if _, err := b.wallet.Credit(ctx, userID, t.AmountCents, t.Description); err != nil {
			logger.Error("top-up credit failed after status flip, reconciliation required",
				"transaction_id", t.ID,
				"session_id", sessionID,
				"user_id", userID,
			)
			return nil, err
		}

		metrics.RecordWalletTopUp("completed")
		return &ReconcileResult{Status: wallet.StatusCompleted, AmountCents: t.AmountCents, Credited: true}, nil

	case status.Status == "expired":
		if _, err := b.repo.MarkTransactionStatus(ctx, t.ID, wallet.StatusFailed); err != nil {
			return nil, err
		}
		metrics.RecordWalletTopUp("failed")
		return &ReconcileResult{Status: wallet.StatusFailed, AmountCents: t.AmountCents, Credited: false}, nil

	default:
		// Session still open, nothing to apply yet.
		return &ReconcileResult{Status: wallet.StatusPending, AmountCents: t.AmountCents, Credited: false}, nil
	}
}
