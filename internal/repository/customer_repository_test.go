package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomer(id string) *model.Customer {
	return &model.Customer{
		ID:            id,
		Name:          "John Doe",
		Email:         "john.doe@example.com",
		CreatedAt:     time.Now(),
		Subscriptions: []string{"sub_1"},
		Transactions:  []string{"tx_1"},
	}
}

func TestCustomerRepository_CreateGet(t *testing.T) {
	repo := NewCustomerRepository(NewStore())
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		_, err := repo.Create(ctx, testCustomer("cus_1"))
		require.NoError(t, err)

		got, err := repo.Get(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", got.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Get(ctx, "cus_missing")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("snapshot slices are detached from the store", func(t *testing.T) {
		got, err := repo.Get(ctx, "cus_1")
		require.NoError(t, err)
		got.Transactions[0] = "tx_mutated"
		got.Subscriptions = append(got.Subscriptions, "sub_extra")

		again, err := repo.Get(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, []string{"tx_1"}, again.Transactions)
		assert.Equal(t, []string{"sub_1"}, again.Subscriptions)
	})
}

func TestCustomerRepository_WithinTransaction(t *testing.T) {
	store := NewStore()
	repo := NewCustomerRepository(store)
	txRepo := NewTransactionRepository(store)
	ctx := context.Background()

	err := repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, testCustomer("cus_2")); err != nil {
			return err
		}
		_, err := txRepo.Create(ctx, testTransaction("tx_bundle"))
		return err
	})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "cus_2")
	assert.NoError(t, err)
	_, err = txRepo.Get(ctx, "tx_bundle")
	assert.NoError(t, err)
}

func TestSeed(t *testing.T) {
	store := NewStore()
	require.NoError(t, Seed(store))

	ctx := context.Background()
	txs, err := NewTransactionRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 5)

	subs, err := NewSubscriptionRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 3)

	customers, err := NewCustomerRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 4)

	// seeded purchase links to its seeded subscription
	tx, err := NewTransactionRepository(store).Get(ctx, "tx_1234567890")
	require.NoError(t, err)
	assert.Equal(t, "sub_12345", tx.SubscriptionID)

	t.Run("seeding twice fails on duplicate ids", func(t *testing.T) {
		assert.ErrorIs(t, Seed(store), ErrDuplicateID)
	})
}
