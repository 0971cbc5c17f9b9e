package model

import "time"

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	// Subscription ids held by this customer; order carries no meaning.
	Subscriptions []string `json:"subscriptions"`
	// Transaction ids in insertion order, i.e. the customer's history.
	Transactions []string `json:"transactions"`
}

func (c *Customer) Clone() *Customer {
	cp := *c
	cp.Subscriptions = append([]string(nil), c.Subscriptions...)
	cp.Transactions = append([]string(nil), c.Transactions...)
	return &cp
}
