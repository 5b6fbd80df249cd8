package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/yashcdw/Crew-Car/internal/logger"
	"github.com/yashcdw/Crew-Car/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Service is the only component allowed to move wallet money.
type Service interface {
	Credit(ctx context.Context, userID int, amountCents int64, description string) (*Wallet, error)
	Debit(ctx context.Context, userID int, amountCents int64, description string) (*Wallet, error)
	// Transfer debits fromUserID and credits toUserID as a two-step saga.
	// The debit is durable before the credit is attempted; a failed credit
	// leaves the debit in place and is reported for reconciliation.
	Transfer(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error
	// Refund moves money back from a payee to the original payer.
	Refund(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error
	BalanceOf(ctx context.Context, userID int) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Credit(ctx context.Context, userID int, amountCents int64, description string) (*Wallet, error) {
	return s.creditAs(ctx, userID, amountCents, TypeTopUp, description)
}

func (s *service) creditAs(ctx context.Context, userID int, amountCents int64, txType, description string) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, _, err := s.repo.ApplyDelta(ctx, userID, amountCents, txType, description)
	return w, err
}

func (s *service) Debit(ctx context.Context, userID int, amountCents int64, description string) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, _, err := s.repo.ApplyDelta(ctx, userID, -amountCents, TypePayment, description)
	return w, err
}

func (s *service) Transfer(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error {
	return s.transferAs(ctx, fromUserID, toUserID, amountCents, TypeTopUp, description)
}

func (s *service) Refund(ctx context.Context, fromUserID, toUserID int, amountCents int64, description string) error {
	return s.transferAs(ctx, fromUserID, toUserID, amountCents, TypeRefund, description)
}

func (s *service) transferAs(ctx context.Context, fromUserID, toUserID int, amountCents int64, creditType, description string) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}

	_, debitTxID, err := s.repo.ApplyDelta(ctx, fromUserID, -amountCents, TypePayment, description)
	if err != nil {
		return err
	}

	// The debit is committed at this point. There is no cross-wallet
	// transaction, so a failed credit leaves the payer charged with the
	// payee not yet paid; the debit transaction id is the reconciliation
	// handle for that window.
	_, _, err = s.repo.ApplyDelta(ctx, toUserID, amountCents, creditType, description)
	if err != nil {
		logger.Error("transfer credit failed after durable debit, reconciliation required",
			"debit_tx_id", debitTxID,
			"from_user", fromUserID,
			"to_user", toUserID,
			"amount_cents", amountCents,
		)
		metrics.RecordWalletTransferLeak()
		return fmt.Errorf("credit of transfer failed (debit transaction %d recorded): %w", debitTxID, err)
	}

	metrics.RecordWalletTransfer()
	return nil
}

func (s *service) BalanceOf(ctx context.Context, userID int) (int64, error) {
	w, err := s.repo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.BalanceCents, nil
}
