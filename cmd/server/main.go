package main

import (
	"context"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/backend"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/form"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/query"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/service"
	httpTransport "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/transport/websocket"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/view"
	"github.com/nicholasjackson/env"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":3000", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")
	apiURL = env.String("API_URL", false,
		"http://localhost:8080", "Base URL of the menu backend API")
	fetchRetries = env.Int("FETCH_RETRIES", false,
		2, "Additional attempts for a failed menu read")
	retryWaitMin = env.Duration("RETRY_WAIT_MIN", false,
		time.Second, "Minimum wait between menu read attempts")
	retryWaitMax = env.Duration("RETRY_WAIT_MAX", false,
		30*time.Second, "Maximum wait between menu read attempts")
	requestTimeout = env.Duration("REQUEST_TIMEOUT", false,
		10*time.Second, "Timeout of a single backend request")
	renderWait = env.Duration("RENDER_WAIT", false,
		2*time.Second, "How long a page waits for the first menu read")
	formTTL = env.Duration("FORM_TTL", false,
		30*time.Minute, "Idle time after which an open form is discarded")
)

type config struct {
	backend    backend.Config
	renderWait time.Duration
	formTTL    time.Duration
}

func loadConfig() (config, error) {
	if *fetchRetries < 0 {
		return config{}, fmt.Errorf("invalid FETCH_RETRIES %d", *fetchRetries)
	}

	return config{
		backend: backend.Config{
			APIURL:       *apiURL,
			Retries:      *fetchRetries,
			RetryWaitMin: *retryWaitMin,
			RetryWaitMax: *retryWaitMax,
			Timeout:      *requestTimeout,
		},
		renderWait: *renderWait,
		formTTL:    *formTTL,
	}, nil
}

// writeTimeout covers the slowest page: a create request followed by a
// menu refetch, plus the wait for the page render
func writeTimeout(cfg config) time.Duration {
	return 2*cfg.backend.Timeout + cfg.renderWait + 5*time.Second
}

func main() {
	// a missing .env file is fine, the process environment still applies
	_ = godotenv.Load()
	envErr := env.Parse()

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "menu-web",
		Level: hclog.LevelFromString(*logLevel),
	})

	if envErr != nil {
		logger.Error("Invalid environment", "error", envErr)
		os.Exit(1)
	}

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	client, err := backend.NewClient(cfg.backend, logger.Named("backend"))
	if err != nil {
		logger.Error("Unable to create backend client", "error", err)
		os.Exit(1)
	}

	// Initialize the event bus - shared between the services and the websocket
	eventBus := events.NewEventBus[any]()

	cache := query.NewCache(logger.Named("query-cache"))

	menu, err := service.NewMenuData(cache, client, eventBus, logger.Named("menu-data"))
	if err != nil {
		logger.Error("Unable to create menu data", "error", err)
		os.Exit(1)
	}
	creator := service.NewItemCreator(client, eventBus, logger.Named("item-creator"))

	forms := form.NewStore(creator, domain.NewValidation(), cfg.formTTL, logger.Named("forms"))

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Error("Unable to load templates", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP handlers
	mh := httpTransport.NewMenuHandler(menu, forms, renderer, cfg.renderWait, logger.Named("http-handler"))

	// Initialize the WebSocket handler with the event bus
	wh := websocketTransport.NewHandler(logger.Named("websocket-handler"), eventBus)

	router := httpTransport.NewRouter(mh, logger, wh)

	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout(cfg),
	}

	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress, "api_url", cfg.backend.APIURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	if err := cache.Close(); err != nil {
		logger.Error("Error closing query cache", "error", err)
	}
}
