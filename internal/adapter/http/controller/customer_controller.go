package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/commons"
	"github.com/corepay/transaction-service/internal/logger"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error)
	GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error)
}

type CustomerController struct {
	service CustomerService
}

func NewCustomerController(service CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

func (c *CustomerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	create := http.HandlerFunc(c.createCustomer)
	get := http.HandlerFunc(c.getCustomer)

	if authMiddleware != nil {
		create = authMiddleware(create).ServeHTTP
		get = authMiddleware(get).ServeHTTP
	}

	mux.Handle("/customers", http.HandlerFunc(create))
	mux.Handle("/customers/", http.HandlerFunc(get))
}

func (c *CustomerController) createCustomer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CustomerResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CustomerResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateCustomer(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}

		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *CustomerController) getCustomer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.CustomerResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/customers/")

	response, err := c.service.GetCustomer(r.Context(), id)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		if response.Message == "Customer not found" {
			status = http.StatusNotFound
		}

		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
