package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/payment-gateway/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value used by the gateway. Only this
// struct must be used to read configuration, no direct access to env or
// any other config source should be made elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"payment_gateway"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr            string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout     int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout    int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpServerReadBufferSize  int    `env:"HTTP_SERVER_READ_BUFFER_SIZE"`
	HttpServerWriteBufferSize int    `env:"HTTP_SERVER_WRITE_BUFFER_SIZE"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	LogLevel []string `env:"LOG_LEVEL"`

	// The coin flip the mock processor uses: fraction of submissions
	// declined. 0 approves everything, 1 declines everything.
	GatewayDeclineRate float64 `env:"GATEWAY_DECLINE_RATE" default:"0.2"`

	// Artificial latency knobs. Zero disables the delay, which is what
	// the tests do.
	GatewayProcessDelay   time.Duration `env:"GATEWAY_PROCESS_DELAY" default:"1s"`
	GatewayOperationDelay time.Duration `env:"GATEWAY_OPERATION_DELAY" default:"800ms"`
	QueryListDelay        time.Duration `env:"QUERY_LIST_DELAY" default:"500ms"`
	QueryGetDelay         time.Duration `env:"QUERY_GET_DELAY" default:"300ms"`

	GatewayCurrency string `env:"GATEWAY_CURRENCY" default:"USD"`
	GatewayPlanName string `env:"GATEWAY_PLAN_NAME" default:"Monthly Plan"`

	SeedDemoData bool `env:"SEED_DEMO_DATA" default:"1"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
