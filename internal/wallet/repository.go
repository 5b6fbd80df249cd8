package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT id, user_id, balance_cents, currency, created_at, updated_at
		 FROM wallets WHERE user_id = $1`,
		userID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// ApplyDelta locks the wallet row for the duration of the transaction so
// concurrent deltas on the same wallet are serialized.
func (r *repository) ApplyDelta(ctx context.Context, userID int, deltaCents int64, txType, description string) (*Wallet, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance_cents, currency, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO wallets (user_id)
				 VALUES ($1)
				 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
				userID,
			).StructScan(&w)
			if err != nil {
				return nil, 0, err
			}
		} else {
			return nil, 0, err
		}
	}

	newBalance := w.BalanceCents + deltaCents
	if newBalance < 0 {
		return nil, 0, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, 0, err
	}

	amount := deltaCents
	if amount < 0 {
		amount = -amount
	}

	var txID int
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (user_id, type, amount_cents, currency, description, status)
		 VALUES ($1, $2, $3, $4, $5, 'completed')
		 RETURNING id`,
		userID, txType, amount, w.Currency, description,
	).Scan(&txID)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	w.BalanceCents = newBalance
	return &w, txID, nil
}

func (r *repository) AppendTransaction(ctx context.Context, t *Transaction) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (user_id, type, amount_cents, currency, description, status, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		t.UserID, t.Type, t.AmountCents, t.Currency, t.Description, t.Status, t.SessionID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) FindTransactionBySession(ctx context.Context, sessionID string) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t,
		`SELECT id, user_id, type, amount_cents, currency, description, status, session_id, created_at
		 FROM wallet_transactions
		 WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// MarkTransactionStatus is the single permitted status transition. The
// conditional WHERE makes concurrent reconcilers race safely: exactly one
// caller sees rows affected.
func (r *repository) MarkTransactionStatus(ctx context.Context, txID int, status string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE wallet_transactions
		 SET status = $1
		 WHERE id = $2 AND status = 'pending'`,
		status, txID,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, type, amount_cents, currency, description, status, session_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
