package wallet

import "time"

// Currency is fixed for the whole system, amounts are kuruş (TRY cents).
const Currency = "TRY"

const (
	TypeTopUp   = "topup"
	TypePayment = "payment"
	TypeRefund  = "refund"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"last_updated"`
}

// Transaction is an append-only ledger record. The only permitted mutation
// is the single status transition away from "pending".
type Transaction struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"transaction_type"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	SessionID   *string   `db:"session_id" json:"session_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
