package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

// PaymentMethod is the card summary embedded in a subscription. Only the
// last four digits are ever kept.
type PaymentMethod struct {
	CardLast4   string `json:"card_last4"`
	CardType    string `json:"card_type"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
}

type Subscription struct {
	ID              string             `json:"id"`
	CustomerID      string             `json:"customer_id"`
	PlanName        string             `json:"plan_name"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	Status          SubscriptionStatus `json:"status"`
	StartDate       time.Time          `json:"start_date"`
	NextBillingDate time.Time          `json:"next_billing_date"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
}

func (s *Subscription) Clone() *Subscription {
	c := *s
	return &c
}
