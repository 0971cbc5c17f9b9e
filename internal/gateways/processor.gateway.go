package gateways

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/nimasrn/payment-gateway/pkg/logger"
)

// AuthorizeRequest is what the gateway hands to the mock acquirer for a
// decision. The card number never leaves this process.
type AuthorizeRequest struct {
	CardNumber string
	CardName   string
	Amount     float64
	Currency   string
}

type AuthorizeResponse struct {
	RequestID       string
	Approved        bool
	ResponseCode    string
	ResponseMessage string
	ProcessedAt     time.Time
}

type declineReason struct {
	code    string
	message string
}

// Decline codes modeled on the processor's response-code table.
var declineReasons = []declineReason{
	{"201", "Insufficient funds"},
	{"202", "Card expired"},
	{"203", "General decline of the card"},
	{"231", "Invalid card number"},
	{"233", "Processor declined the request"},
}

const (
	approvedCode    = "100"
	approvedMessage = "Success"
)

// Processor simulates an acquirer: it approves a configurable fraction of
// requests and declines the rest with a random reason. The rand source is
// injectable so tests pin the outcome (declineRate 0 always approves,
// 1 always declines).
type Processor struct {
	declineRate float64
	processorID string
	ids         *ident.Generator

	mu  sync.Mutex
	rng *rand.Rand
}

func NewProcessor(declineRate float64, src rand.Source, ids *ident.Generator) *Processor {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Processor{
		declineRate: declineRate,
		processorID: "MOCK_PROCESSOR_" + uuid.New().String()[:8],
		ids:         ids,
		rng:         rand.New(src),
	}
}

func (p *Processor) ID() string { return p.processorID }

// Authorize decides a single submission. It never errs on its own; a
// decline is a normal response, not a failure.
func (p *Processor) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &AuthorizeResponse{
		RequestID:   p.ids.New("req"),
		ProcessedAt: time.Now(),
	}

	p.mu.Lock()
	approved := p.rng.Float64() >= p.declineRate
	var reason declineReason
	if !approved {
		reason = declineReasons[p.rng.Intn(len(declineReasons))]
	}
	p.mu.Unlock()

	if approved {
		resp.Approved = true
		resp.ResponseCode = approvedCode
		resp.ResponseMessage = approvedMessage
		return resp, nil
	}

	resp.ResponseCode = reason.code
	resp.ResponseMessage = reason.message
	logger.Debug("authorization declined",
		"processor", p.processorID,
		"request_id", resp.RequestID,
		"response_code", resp.ResponseCode,
	)
	return resp, nil
}
