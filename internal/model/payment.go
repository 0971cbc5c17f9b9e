package model

import (
	"errors"
	"strconv"
	"strings"
)

// PaymentRequest is the input for submitting a payment. The amount stays
// a numeric string here because that is how the form submits it; it is
// parsed during validation.
type PaymentRequest struct {
	CardNumber  string          `json:"card_number"`
	CardName    string          `json:"card_name"`
	ExpiryMonth string          `json:"expiry_month"`
	ExpiryYear  string          `json:"expiry_year"`
	CVV         string          `json:"cvv"`
	Amount      string          `json:"amount"`
	Type        TransactionType `json:"type"`
}

func (p PaymentRequest) Validate() error {
	if strings.TrimSpace(p.CardNumber) == "" {
		return errors.New("card_number is required")
	}
	if strings.TrimSpace(p.CardName) == "" {
		return errors.New("card_name is required")
	}
	if p.Type != TransactionTypePurchase && p.Type != TransactionTypeAuthorization {
		return errors.New("type must be purchase or authorization")
	}
	amount, err := p.AmountValue()
	if err != nil {
		return errors.New("amount must be a number")
	}
	if amount < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}

func (p PaymentRequest) AmountValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(p.Amount), 64)
}

// CardLast4 returns the last four characters of the card number, or the
// whole number when it is shorter than four.
func (p PaymentRequest) CardLast4() string {
	n := strings.TrimSpace(p.CardNumber)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// CardTypeFromNumber maps the leading digit to a scheme name for display.
func CardTypeFromNumber(number string) string {
	n := strings.TrimSpace(number)
	switch {
	case strings.HasPrefix(n, "4"):
		return "Visa"
	case strings.HasPrefix(n, "5"):
		return "Mastercard"
	case strings.HasPrefix(n, "3"):
		return "Amex"
	case strings.HasPrefix(n, "6"):
		return "Discover"
	default:
		return "Card"
	}
}
