package repository

import (
	"time"

	"github.com/nimasrn/payment-gateway/internal/model"
)

// Seed loads the demo dataset the dashboard boots with so the views are
// not empty on a fresh process. Tests use an unseeded store.
func Seed(s *Store) error {
	now := time.Now()
	day := 24 * time.Hour

	transactions := []*model.Transaction{
		{
			ID:              "tx_1234567890",
			Type:            model.TransactionTypePurchase,
			Amount:          99.99,
			Currency:        "USD",
			Status:          model.TransactionStatusSuccess,
			CardLast4:       "4242",
			CustomerName:    "John Doe",
			Timestamp:       now.Add(-1 * day),
			RequestID:       "req_123456",
			ResponseCode:    "100",
			ResponseMessage: "Success",
			SubscriptionID:  "sub_12345",
		},
		{
			ID:              "tx_2345678901",
			Type:            model.TransactionTypeAuthorization,
			Amount:          199.99,
			Currency:        "USD",
			Status:          model.TransactionStatusSuccess,
			CardLast4:       "1234",
			CustomerName:    "Jane Smith",
			Timestamp:       now.Add(-2 * day),
			RequestID:       "req_234567",
			ResponseCode:    "100",
			ResponseMessage: "Success",
		},
		{
			ID:              "tx_3456789012",
			Type:            model.TransactionTypeCapture,
			Amount:          199.99,
			Currency:        "USD",
			Status:          model.TransactionStatusProcessing,
			CardLast4:       "1234",
			CustomerName:    "Jane Smith",
			Timestamp:       now.Add(-1 * day),
			RequestID:       "req_345678",
			ResponseCode:    "100",
			ResponseMessage: "Success",
		},
		{
			ID:              "tx_4567890123",
			Type:            model.TransactionTypeRefund,
			Amount:          49.99,
			Currency:        "USD",
			Status:          model.TransactionStatusRefunded,
			CardLast4:       "5678",
			CustomerName:    "Robert Johnson",
			Timestamp:       now.Add(-3 * day),
			RequestID:       "req_456789",
			ResponseCode:    "100",
			ResponseMessage: "Success",
		},
		{
			ID:              "tx_5678901234",
			Type:            model.TransactionTypePurchase,
			Amount:          129.99,
			Currency:        "USD",
			Status:          model.TransactionStatusDeclined,
			CardLast4:       "9012",
			CustomerName:    "Sarah Williams",
			Timestamp:       now.Add(-4 * day),
			RequestID:       "req_567890",
			ResponseCode:    "231",
			ResponseMessage: "Invalid card number",
		},
	}

	subscriptions := []*model.Subscription{
		{
			ID:              "sub_12345",
			CustomerID:      "cus_12345",
			PlanName:        "Pro Plan",
			Amount:          99.99,
			Currency:        "USD",
			Status:          model.SubscriptionStatusActive,
			StartDate:       now.Add(-30 * day),
			NextBillingDate: now.Add(30 * day),
			PaymentMethod: model.PaymentMethod{
				CardLast4:   "4242",
				CardType:    "Visa",
				ExpiryMonth: "12",
				ExpiryYear:  "2025",
			},
		},
		{
			ID:              "sub_23456",
			CustomerID:      "cus_23456",
			PlanName:        "Enterprise Plan",
			Amount:          299.99,
			Currency:        "USD",
			Status:          model.SubscriptionStatusActive,
			StartDate:       now.Add(-15 * day),
			NextBillingDate: now.Add(15 * day),
			PaymentMethod: model.PaymentMethod{
				CardLast4:   "1234",
				CardType:    "Mastercard",
				ExpiryMonth: "09",
				ExpiryYear:  "2024",
			},
		},
		{
			ID:              "sub_34567",
			CustomerID:      "cus_34567",
			PlanName:        "Basic Plan",
			Amount:          49.99,
			Currency:        "USD",
			Status:          model.SubscriptionStatusPastDue,
			StartDate:       now.Add(-45 * day),
			NextBillingDate: now.Add(-15 * day),
			PaymentMethod: model.PaymentMethod{
				CardLast4:   "5678",
				CardType:    "Visa",
				ExpiryMonth: "03",
				ExpiryYear:  "2023",
			},
		},
	}

	customers := []*model.Customer{
		{
			ID:            "cus_12345",
			Name:          "John Doe",
			Email:         "john.doe@example.com",
			CreatedAt:     now.Add(-30 * day),
			Subscriptions: []string{"sub_12345"},
			Transactions:  []string{"tx_1234567890"},
		},
		{
			ID:            "cus_23456",
			Name:          "Jane Smith",
			Email:         "jane.smith@example.com",
			CreatedAt:     now.Add(-15 * day),
			Subscriptions: []string{"sub_23456"},
			Transactions:  []string{"tx_2345678901", "tx_3456789012"},
		},
		{
			ID:            "cus_34567",
			Name:          "Robert Johnson",
			Email:         "robert.johnson@example.com",
			CreatedAt:     now.Add(-45 * day),
			Subscriptions: []string{"sub_34567"},
			Transactions:  []string{"tx_4567890123"},
		},
		{
			ID:            "cus_45678",
			Name:          "Sarah Williams",
			Email:         "sarah.williams@example.com",
			CreatedAt:     now.Add(-60 * day),
			Subscriptions: []string{},
			Transactions:  []string{"tx_5678901234"},
		},
	}

	for _, t := range transactions {
		if err := s.insertTransaction(t); err != nil {
			return err
		}
	}
	for _, sub := range subscriptions {
		if err := s.insertSubscription(sub); err != nil {
			return err
		}
	}
	for _, c := range customers {
		if err := s.insertCustomer(c); err != nil {
			return err
		}
	}
	return nil
}
