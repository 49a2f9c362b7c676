// Package httpapi exposes stored leads and audits over HTTP for the dashboard.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/export"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/storage"
)

const (
	leadIDParameter          = "id"
	contentTypeHeader        = "Content-Type"
	contentDispositionHeader = "Content-Disposition"
	jsonContentType          = "application/json"
	csvContentType           = "text/csv; charset=utf-8"
	csvAttachmentDisposition = `attachment; filename="leads.csv"`
	healthyStatus            = "ok"
	invalidLeadIDMessage     = "lead id must be a positive integer"
	notFoundMessage          = "not found"
	internalErrorMessage     = "internal server error"
	corsMaxAgeSeconds        = 300
	requestLogMessage        = "Request served"
	requestFailedLogMessage  = "Request failed"
	methodFieldConstant      = "method"
	pathFieldConstant        = "path"
	statusFieldConstant      = "status"
	durationFieldConstant    = "duration"
	requestIDFieldConstant   = "request_id"
)

// LeadStore is the data surface served by the router.
type LeadStore interface {
	ListLeads(executionContext context.Context) ([]leads.Lead, error)
	GetLead(executionContext context.Context, leadID int64) (leads.Lead, error)
	LatestAudit(executionContext context.Context, leadID int64) (audit.Result, error)
	DeleteLead(executionContext context.Context, leadID int64) error
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusError struct {
	status  int
	message string
}

func (err statusError) Error() string {
	return err.message
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// Router serves the lead and audit endpoints.
type Router struct {
	store  LeadStore
	logger *zap.Logger
}

// NewRouter mounts the routes. An empty origin list disables CORS headers.
func NewRouter(store LeadStore, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := &Router{store: store, logger: logger}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(router.logRequests)
	if len(allowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", contentTypeHeader},
			MaxAge:         corsMaxAgeSeconds,
		}))
	}

	mux.Get("/healthz", router.handleHealth)
	mux.Route("/leads", func(leadRoutes chi.Router) {
		leadRoutes.Get("/", router.wrap(router.handleListLeads))
		leadRoutes.Get("/export.csv", router.wrap(router.handleExportCSV))
		leadRoutes.Get("/{id}", router.wrap(router.handleGetLead))
		leadRoutes.Delete("/{id}", router.wrap(router.handleDeleteLead))
		leadRoutes.Get("/{id}/audit", router.wrap(router.handleLatestAudit))
	})
	return mux
}

func (router *Router) wrap(handler handlerFunc) http.HandlerFunc {
	return func(responseWriter http.ResponseWriter, request *http.Request) {
		handlerError := handler(responseWriter, request)
		if handlerError == nil {
			return
		}
		var requestError statusError
		switch {
		case errors.As(handlerError, &requestError):
			writeJSON(responseWriter, requestError.status, errorResponse{Error: requestError.message})
		case errors.Is(handlerError, storage.ErrNotFound):
			writeJSON(responseWriter, http.StatusNotFound, errorResponse{Error: notFoundMessage})
		default:
			router.logger.Error(requestFailedLogMessage, zap.String(pathFieldConstant, request.URL.Path), zap.Error(handlerError))
			writeJSON(responseWriter, http.StatusInternalServerError, errorResponse{Error: internalErrorMessage})
		}
	}
}

func (router *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		startedAt := time.Now()
		wrappedWriter := middleware.NewWrapResponseWriter(responseWriter, request.ProtoMajor)
		next.ServeHTTP(wrappedWriter, request)
		router.logger.Debug(requestLogMessage,
			zap.String(methodFieldConstant, request.Method),
			zap.String(pathFieldConstant, request.URL.Path),
			zap.Int(statusFieldConstant, wrappedWriter.Status()),
			zap.Duration(durationFieldConstant, time.Since(startedAt)),
			zap.String(requestIDFieldConstant, middleware.GetReqID(request.Context())),
		)
	})
}

func (router *Router) handleHealth(responseWriter http.ResponseWriter, _ *http.Request) {
	writeJSON(responseWriter, http.StatusOK, map[string]string{statusFieldConstant: healthyStatus})
}

func (router *Router) handleListLeads(responseWriter http.ResponseWriter, request *http.Request) error {
	records, listError := router.store.ListLeads(request.Context())
	if listError != nil {
		return listError
	}
	if records == nil {
		records = []leads.Lead{}
	}
	writeJSON(responseWriter, http.StatusOK, records)
	return nil
}

func (router *Router) handleExportCSV(responseWriter http.ResponseWriter, request *http.Request) error {
	records, listError := router.store.ListLeads(request.Context())
	if listError != nil {
		return listError
	}
	responseWriter.Header().Set(contentTypeHeader, csvContentType)
	responseWriter.Header().Set(contentDispositionHeader, csvAttachmentDisposition)
	responseWriter.WriteHeader(http.StatusOK)
	if writeError := export.WriteCSV(responseWriter, records); writeError != nil {
		router.logger.Warn(requestFailedLogMessage, zap.String(pathFieldConstant, request.URL.Path), zap.Error(writeError))
	}
	return nil
}

func (router *Router) handleGetLead(responseWriter http.ResponseWriter, request *http.Request) error {
	leadID, parseError := leadIDFromRequest(request)
	if parseError != nil {
		return parseError
	}
	lead, leadError := router.store.GetLead(request.Context(), leadID)
	if leadError != nil {
		return leadError
	}
	writeJSON(responseWriter, http.StatusOK, lead)
	return nil
}

func (router *Router) handleLatestAudit(responseWriter http.ResponseWriter, request *http.Request) error {
	leadID, parseError := leadIDFromRequest(request)
	if parseError != nil {
		return parseError
	}
	result, auditError := router.store.LatestAudit(request.Context(), leadID)
	if auditError != nil {
		return auditError
	}
	writeJSON(responseWriter, http.StatusOK, result)
	return nil
}

func (router *Router) handleDeleteLead(responseWriter http.ResponseWriter, request *http.Request) error {
	leadID, parseError := leadIDFromRequest(request)
	if parseError != nil {
		return parseError
	}
	if deleteError := router.store.DeleteLead(request.Context(), leadID); deleteError != nil {
		return deleteError
	}
	responseWriter.WriteHeader(http.StatusNoContent)
	return nil
}

func leadIDFromRequest(request *http.Request) (int64, error) {
	leadID, parseError := strconv.ParseInt(chi.URLParam(request, leadIDParameter), 10, 64)
	if parseError != nil || leadID <= 0 {
		return 0, statusError{status: http.StatusBadRequest, message: invalidLeadIDMessage}
	}
	return leadID, nil
}

func writeJSON(responseWriter http.ResponseWriter, status int, payload any) {
	responseWriter.Header().Set(contentTypeHeader, jsonContentType)
	responseWriter.WriteHeader(status)
	_ = json.NewEncoder(responseWriter).Encode(payload)
}
