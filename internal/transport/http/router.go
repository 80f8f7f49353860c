package http

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	websocketTransport "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/transport/websocket"
	"net/http"
)

func NewRouter(
	mh *MenuHandler,
	logger hclog.Logger,
	wsh *websocketTransport.Handler,
) http.Handler {
	router := mux.NewRouter()

	mw := NewMiddleware(logger)
	router.Use(mw.LoggingMiddleware)

	router.HandleFunc("/healthz", Health).Methods(http.MethodGet)
	router.HandleFunc("/ws", wsh.HandleWebSocket).Methods(http.MethodGet)

	// HTML pages, compressed
	pages := router.NewRoute().Subrouter()
	pages.Use(mw.ContentTypeMiddleware)
	pages.Use(handlers.CompressHandler)

	pages.HandleFunc("/", mh.GetMenu).Methods(http.MethodGet)
	pages.HandleFunc("/refresh", mh.Refresh).Methods(http.MethodPost)
	pages.HandleFunc("/items/new", mh.NewItem).Methods(http.MethodGet)
	pages.HandleFunc("/items/{id}", mh.CreateItem).Methods(http.MethodPost)
	pages.HandleFunc("/items/{id}/cancel", mh.CancelItem).Methods(http.MethodPost)

	recoveryLog := logger.StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Error})
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLog),
		handlers.PrintRecoveryStack(true),
	)(router)
}
