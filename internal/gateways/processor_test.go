package gateways

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(declineRate float64, seed int64) *Processor {
	return NewProcessor(declineRate, rand.NewSource(seed), ident.New(rand.NewSource(seed)))
}

func TestProcessor_Authorize(t *testing.T) {
	ctx := context.Background()
	req := AuthorizeRequest{
		CardNumber: "4242424242424242",
		CardName:   "John Doe",
		Amount:     99.99,
		Currency:   "USD",
	}

	t.Run("rate zero always approves", func(t *testing.T) {
		p := newTestProcessor(0, 1)
		for i := 0; i < 50; i++ {
			resp, err := p.Authorize(ctx, req)
			require.NoError(t, err)
			assert.True(t, resp.Approved)
			assert.Equal(t, "100", resp.ResponseCode)
			assert.Equal(t, "Success", resp.ResponseMessage)
		}
	})

	t.Run("rate one always declines", func(t *testing.T) {
		known := map[string]bool{"201": true, "202": true, "203": true, "231": true, "233": true}
		p := newTestProcessor(1, 1)
		for i := 0; i < 50; i++ {
			resp, err := p.Authorize(ctx, req)
			require.NoError(t, err)
			assert.False(t, resp.Approved)
			assert.True(t, known[resp.ResponseCode], "unexpected decline code %s", resp.ResponseCode)
			assert.NotEmpty(t, resp.ResponseMessage)
		}
	})

	t.Run("request ids carry the req prefix", func(t *testing.T) {
		p := newTestProcessor(0, 2)
		resp, err := p.Authorize(ctx, req)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.RequestID, "req_"))
	})

	t.Run("canceled context", func(t *testing.T) {
		p := newTestProcessor(0, 3)
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := p.Authorize(canceled, req)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcessor_ID(t *testing.T) {
	p := newTestProcessor(0.2, 1)
	assert.True(t, strings.HasPrefix(p.ID(), "MOCK_PROCESSOR_"))
}
