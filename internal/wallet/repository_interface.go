package wallet

import "context"

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	// ApplyDelta atomically shifts the balance by deltaCents and records a
	// completed transaction of the given type. Returns the updated wallet and
	// the new transaction id. Fails with ErrInsufficientFunds when the
	// resulting balance would be negative.
	ApplyDelta(ctx context.Context, userID int, deltaCents int64, txType, description string) (*Wallet, int, error)
	AppendTransaction(ctx context.Context, tx *Transaction) (int, error)
	FindTransactionBySession(ctx context.Context, sessionID string) (*Transaction, error)
	// MarkTransactionStatus flips a pending transaction to a terminal status.
	// Returns false when the transaction was already terminal.
	MarkTransactionStatus(ctx context.Context, txID int, status string) (bool, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
