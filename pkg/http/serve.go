package xhttp

import (
	"crypto/tls"
	"net"
	"os"
	"reflect"
	"runtime"
	"slices"
	"time"

	"github.com/nimasrn/payment-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

type MiddlewareFunc func(next RequestHandler) RequestHandler
type RequestCtx = fasthttp.RequestCtx
type RequestHandler = fasthttp.RequestHandler
type RequestHeader = fasthttp.RequestHeader
type ResponseHeader = fasthttp.ResponseHeader
type Server = fasthttp.Server

const (
	StatusOK                  = fasthttp.StatusOK
	StatusCreated             = fasthttp.StatusCreated
	StatusBadRequest          = fasthttp.StatusBadRequest
	StatusPaymentRequired     = fasthttp.StatusPaymentRequired
	StatusNotFound            = fasthttp.StatusNotFound
	StatusConflict            = fasthttp.StatusConflict
	StatusRequestTimeout      = fasthttp.StatusRequestTimeout
	StatusInternalServerError = fasthttp.StatusInternalServerError
)

func StatusText(code int) string {
	return fasthttp.StatusMessage(code)
}

type ServerOption struct {
	Handler RequestHandler

	// idle connections held open too long exhaust file descriptors,
	// so both connection and worker idle times are bounded
	IdleTimeout           time.Duration
	MaxIdleWorkerDuration time.Duration
	TCPKeepalivePeriod    time.Duration

	// caps the request body so a single client cannot exhaust memory
	MaxRequestBodySize int

	RequestTimeout  time.Duration
	ReadBufferSize  int
	WriteBufferSize int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	Concurrency     int

	MaxConnsPerIP      int
	MaxRequestsPerConn int

	ErrorHandler                  func(ctx *RequestCtx, err error)
	Name                          string
	DisableKeepalive              bool
	TCPKeepalive                  bool
	ReduceMemoryUsage             bool
	DisablePreParseMultipartForm  bool
	LogAllErrors                  bool
	DisableHeaderNamesNormalizing bool
	NoDefaultServerHeader         bool
	NoDefaultDate                 bool
	NoDefaultContentType          bool
	CloseOnShutdown               bool
	ConnState                     func(net.Conn, fasthttp.ConnState)
	Logger                        logger.Logger
	TLSConfig                     *tls.Config
}

var DefaultServerOption = ServerOption{
	Handler: func(ctx *RequestCtx) {
		ctx.Error(StatusText(StatusNotFound), StatusNotFound)
	},
	IdleTimeout:                  time.Second * 10,
	MaxIdleWorkerDuration:        time.Minute * 1,
	TCPKeepalivePeriod:           time.Minute * 120, // linux default
	MaxRequestBodySize:           4 * 1024 * 1024,   // 4MB
	RequestTimeout:               time.Millisecond * 5000,
	ReadBufferSize:               1024 * 4, // also, max header size
	WriteBufferSize:              1024 * 4,
	ReadTimeout:                  time.Millisecond * 2500,
	WriteTimeout:                 time.Millisecond * 2500,
	Concurrency:                  30_000,
	TCPKeepalive:                 true,
	DisablePreParseMultipartForm: true,
	LogAllErrors:                 true,
	NoDefaultServerHeader:        true,
	NoDefaultDate:                true,
	NoDefaultContentType:         true,
	CloseOnShutdown:              true,
}

type Engine struct {
	*Router
	*Server
	option ServerOption
	middle []MiddlewareFunc
}

func newServer(options ServerOption) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:                       options.Handler,
		ErrorHandler:                  options.ErrorHandler,
		Name:                          options.Name,
		Concurrency:                   options.Concurrency,
		ReadBufferSize:                options.ReadBufferSize,
		WriteBufferSize:               options.WriteBufferSize,
		ReadTimeout:                   options.ReadTimeout,
		WriteTimeout:                  options.WriteTimeout,
		IdleTimeout:                   options.IdleTimeout,
		MaxConnsPerIP:                 options.MaxConnsPerIP,
		MaxRequestsPerConn:            options.MaxRequestsPerConn,
		MaxIdleWorkerDuration:         options.MaxIdleWorkerDuration,
		TCPKeepalivePeriod:            options.TCPKeepalivePeriod,
		MaxRequestBodySize:            options.MaxRequestBodySize,
		DisableKeepalive:              options.DisableKeepalive,
		TCPKeepalive:                  options.TCPKeepalive,
		ReduceMemoryUsage:             options.ReduceMemoryUsage,
		DisablePreParseMultipartForm:  options.DisablePreParseMultipartForm,
		LogAllErrors:                  options.LogAllErrors,
		DisableHeaderNamesNormalizing: options.DisableHeaderNamesNormalizing,
		NoDefaultServerHeader:         options.NoDefaultServerHeader,
		NoDefaultDate:                 options.NoDefaultDate,
		NoDefaultContentType:          options.NoDefaultContentType,
		CloseOnShutdown:               options.CloseOnShutdown,
		ConnState:                     options.ConnState,
		Logger:                        options.Logger,
		TLSConfig:                     options.TLSConfig,
	}
}

func NewServer(options ServerOption) *Engine {
	if options.Logger == nil {
		options.Logger = logger.GetLogger()
	}
	e := &Engine{
		Server: newServer(options),
		Router: NewRouter(),
		option: options,
	}
	e.Server.Logger = options.Logger
	return e
}

func CreateServer() *Engine {
	s := NewServer(DefaultServerOption)
	s.Router = CreateDefaultRouter()
	return s
}

func (e *Engine) ListenAndServe(addr string) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	e.Server.Logger.Printf("[xhttp] server is listening on %s", addr)
	return e.Server.ListenAndServe(addr)
}

func (e *Engine) DoRouting() error {
	for method, route := range e.Router.List() {
		for _, r := range route {
			e.Server.Logger.Printf("[xhttp] method: %s, path: %s", method, r)
		}
	}
	e.Server.Handler = e.Router.Handler
	// reverse so the first registered middleware is the outermost
	slices.Reverse(e.middle)
	for i, m := range e.middle {
		e.Server.Handler = m(e.Server.Handler)
		e.Server.Logger.Printf("[xhttp] middleware %d registered - %s", i+1, runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name())
	}
	return nil
}

// Use adds middleware to the chain which is run for every request.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// Shutdown gracefully shuts down the server without interrupting any
// active connections.
func (e *Engine) Shutdown() {
	e.Server.Logger.Printf("[xhttp] server is shutting down, process id: %d", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		e.Server.Logger.Printf("[xhttp] error while shutting down: %v", err)
	}
}
