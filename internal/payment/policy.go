package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/yashcdw/Crew-Car/internal/trip"
	"github.com/yashcdw/Crew-Car/internal/wallet"
)

type Method string

const (
	MethodWallet Method = "wallet"
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
)

var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

// Policy decides which payment methods are legal per trip category and
// executes the wallet leg when one is required. Cash and card settle
// outside the system.
type Policy struct {
	wallet wallet.Service
}

func NewPolicy(walletSvc wallet.Service) *Policy {
	return &Policy{wallet: walletSvc}
}

// AuthorizePayment validates the method against the trip category and, for
// wallet payments, moves price money from payer to payee. Wallet errors
// (ErrInsufficientFunds, ErrInvalidAmount) propagate unchanged.
// An empty method defaults to wallet.
func (p *Policy) AuthorizePayment(ctx context.Context, category trip.Category, method Method, payerID, payeeID int, amountCents int64, description string) error {
	if method == "" {
		method = MethodWallet
	}

	switch category {
	case trip.CategoryPersonalCar:
		if method != MethodWallet {
			return fmt.Errorf("%w: personal car trips only accept wallet payments", ErrUnsupportedPaymentMethod)
		}
	case trip.CategoryTaxi:
		if method != MethodWallet && method != MethodCash && method != MethodCard {
			return fmt.Errorf("%w: taxi trips accept cash, card or wallet payments", ErrUnsupportedPaymentMethod)
		}
	default:
		return fmt.Errorf("%w: unknown trip category %q", ErrUnsupportedPaymentMethod, category)
	}

	if method != MethodWallet {
		// External settlement, no wallet movement.
		return nil
	}

	return p.wallet.Transfer(ctx, payerID, payeeID, amountCents, description)
}
