package router

import (
	"encoding/json"
	"net/http"
)

type TransactionRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type CustomerRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	transactionController TransactionRouteRegistrar,
	accountController AccountRouteRegistrar,
	customerController CustomerRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthRoute(mux)

	if transactionController != nil {
		transactionController.RegisterRoutes(mux, authMiddleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, authMiddleware)
	}
	if customerController != nil {
		customerController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}

func registerHealthRoute(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "OK",
			"service": "Transaction Service",
		})
	})
}
