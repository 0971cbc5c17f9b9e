// Standalone mock acquirer for demos and load tests. The dashboard API
// keeps its own in-process simulator; this binary exposes the same
// decision model over HTTP for anything that wants a network target.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AuthorizeRequest struct {
	CardNumber string  `json:"card_number" binding:"required"`
	CardName   string  `json:"card_name" binding:"required"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

type AuthorizeResponse struct {
	RequestID       string    `json:"request_id"`
	Approved        bool      `json:"approved"`
	ResponseCode    string    `json:"response_code"`
	ResponseMessage string    `json:"response_message"`
	ProcessorID     string    `json:"processor_id"`
	ProcessedAt     time.Time `json:"processed_at"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	ProcessorID string    `json:"processor_id"`
	Timestamp   time.Time `json:"timestamp"`
	DeclineRate float64   `json:"decline_rate"`
}

// MockProcessor simulates an acquiring bank's authorization endpoint.
type MockProcessor struct {
	declineRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	processorID string
	rng         *rand.Rand
}

func NewMockProcessor(declineRate float64, minDelay, maxDelay time.Duration) *MockProcessor {
	return &MockProcessor{
		declineRate: declineRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		processorID: "MOCK_PROCESSOR_" + uuid.New().String()[:8],
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProcessor) authorize(req *AuthorizeRequest) *AuthorizeResponse {
	// Simulate processing delay
	time.Sleep(m.randomDelay())

	response := &AuthorizeResponse{
		RequestID:   "req_" + uuid.New().String()[:12],
		ProcessorID: m.processorID,
		ProcessedAt: time.Now(),
	}

	if m.shouldApprove() {
		response.Approved = true
		response.ResponseCode = "100"
		response.ResponseMessage = "Success"

		log.Info().
			Str("request_id", response.RequestID).
			Float64("amount", req.Amount).
			Msg("Authorization approved")
	} else {
		response.ResponseCode = m.randomDeclineCode()
		response.ResponseMessage = declineMessage(response.ResponseCode)

		log.Warn().
			Str("request_id", response.RequestID).
			Str("response_code", response.ResponseCode).
			Msg("Authorization declined")
	}

	return response
}

func (m *MockProcessor) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockProcessor) shouldApprove() bool {
	return m.rng.Float64() >= m.declineRate
}

func (m *MockProcessor) randomDeclineCode() string {
	codes := []string{"201", "202", "203", "231", "233"}
	return codes[m.rng.Intn(len(codes))]
}

func declineMessage(code string) string {
	messages := map[string]string{
		"201": "Insufficient funds",
		"202": "Card expired",
		"203": "General decline of the card",
		"231": "Invalid card number",
		"233": "Processor declined the request",
	}
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Unknown error occurred"
}

type Handler struct {
	processor *MockProcessor
}

func NewHandler(processor *MockProcessor) *Handler {
	return &Handler{processor: processor}
}

func (h *Handler) Authorize(c *gin.Context) {
	var req AuthorizeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	response := h.processor.authorize(&req)

	statusCode := http.StatusOK
	if !response.Approved {
		statusCode = http.StatusAccepted // 202: accepted but declined
	}

	c.JSON(statusCode, response)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		ProcessorID: h.processor.processorID,
		Timestamp:   time.Now(),
		DeclineRate: h.processor.declineRate,
	})
}

// UpdateConfig allows changing the decline rate at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeclineRate *float64 `json:"decline_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeclineRate != nil {
		if *config.DeclineRate >= 0 && *config.DeclineRate <= 1.0 {
			h.processor.declineRate = *config.DeclineRate
			log.Info().Float64("rate", *config.DeclineRate).Msg("Updated decline rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"decline_rate": h.processor.declineRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/authorize", handler.Authorize)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	declineRate := getEnvFloat("DECLINE_RATE", 0.2)
	minDelay := getEnvDuration("MIN_DELAY", 500*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 2*time.Second)

	log.Info().
		Str("port", port).
		Float64("decline_rate", declineRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Payment Processor")

	processor := NewMockProcessor(declineRate, minDelay, maxDelay)
	handler := NewHandler(processor)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
