package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/payment-gateway/internal/config"
	"github.com/nimasrn/payment-gateway/internal/gateways"
	"github.com/nimasrn/payment-gateway/internal/handlers"
	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/nimasrn/payment-gateway/internal/repository"
	"github.com/nimasrn/payment-gateway/internal/services"
	xhttp "github.com/nimasrn/payment-gateway/pkg/http"
	"github.com/nimasrn/payment-gateway/pkg/logger"
	"github.com/nimasrn/payment-gateway/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	// the simulated latencies alone add up to ~1s, so the request
	// timeout sits well above them
	s.Use(xhttp.TimeoutMiddleware(time.Second * 10))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	if config.Get().PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to create metrics", "error", err)
			return
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go prom.ListenAndServe(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	store := repository.NewStore()
	if config.Get().SeedDemoData {
		if err := repository.Seed(store); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			return
		}
	}

	transactionRepo := repository.NewTransactionRepository(store)
	subscriptionRepo := repository.NewSubscriptionRepository(store)
	customerRepo := repository.NewCustomerRepository(store)

	ids := ident.New(nil)
	processor := gateways.NewProcessor(config.Get().GatewayDeclineRate, nil, ids)
	logger.Info("mock processor initialized",
		"processor", processor.ID(),
		"decline_rate", config.Get().GatewayDeclineRate,
	)

	delays := services.Delays{
		Process:   config.Get().GatewayProcessDelay,
		Operation: config.Get().GatewayOperationDelay,
		List:      config.Get().QueryListDelay,
		Get:       config.Get().QueryGetDelay,
	}

	// services
	paymentService := services.NewPaymentService(transactionRepo, subscriptionRepo, customerRepo, processor, ids, services.PaymentOptions{
		Currency: config.Get().GatewayCurrency,
		PlanName: config.Get().GatewayPlanName,
		Delays:   delays,
	})
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, delays)
	customerService := services.NewCustomerService(customerRepo, delays)
	healthService := services.NewHealthService()

	// v1 handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterPaymentRoutes(g, paymentHandler)
	handlers.RegisterSubscriptionRoutes(g, subscriptionHandler)
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
