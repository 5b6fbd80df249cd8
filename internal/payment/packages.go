package payment

import "errors"

var ErrUnknownPackage = errors.New("invalid package")

// TopUpPackage is a fixed server-side top-up denomination. Clients pick a
// package id, never an amount.
type TopUpPackage struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
}

func TopUpPackages() map[string]TopUpPackage {
	return map[string]TopUpPackage{
		"small":  {ID: "small", AmountCents: 1000, Currency: "TRY", Name: "Small Package"},
		"medium": {ID: "medium", AmountCents: 2500, Currency: "TRY", Name: "Medium Package"},
		"large":  {ID: "large", AmountCents: 5000, Currency: "TRY", Name: "Large Package"},
		"jumbo":  {ID: "jumbo", AmountCents: 10000, Currency: "TRY", Name: "Jumbo Package"},
	}
}

func FindPackage(packageID string) (TopUpPackage, error) {
	pkg, ok := TopUpPackages()[packageID]
	if !ok {
		return TopUpPackage{}, ErrUnknownPackage
	}
	return pkg, nil
}
