package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	copanyservice "copany/contexts/collaboration/copany-service"
	copanyerrors "copany/contexts/collaboration/copany-service/domain/errors"
	copanyhttp "copany/contexts/collaboration/copany-service/transport/http"
	distributionengine "copany/contexts/finance-core/distribution-engine"
	distributionerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
	distributionhttp "copany/contexts/finance-core/distribution-engine/transport/http"
	ledgerservice "copany/contexts/finance-core/ledger-service"
	ledgererrors "copany/contexts/finance-core/ledger-service/domain/errors"
	ledgerhttp "copany/contexts/finance-core/ledger-service/transport/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "copany/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	copanies     copanyservice.Module
	ledger       ledgerservice.Module
	distribution distributionengine.Module
}

func New(
	copanies copanyservice.Module,
	ledger ledgerservice.Module,
	distribution distributionengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		copanies:     copanies,
		ledger:       ledger,
		distribution: distribution,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/copanies", s.handleCreateCopany)
	s.mux.HandleFunc("GET /v1/copanies", s.handleListCopanies)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}", s.handleGetCopany)
	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/contributors", s.handleAddContributor)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/contributors", s.handleListContributors)
	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/issues", s.handleCreateIssue)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/issues", s.handleListIssues)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/issues/{issue_id}", s.handleGetIssue)
	s.mux.HandleFunc("PATCH /v1/copanies/{copany_id}/issues/{issue_id}", s.handleUpdateIssue)

	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/transactions", s.handleRecordTransaction)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/transactions", s.handleListTransactions)
	s.mux.HandleFunc("PATCH /v1/copanies/{copany_id}/transactions/{transaction_id}", s.handleAmendTransaction)
	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/transactions/{transaction_id}/confirm", s.handleConfirmTransaction)
	s.mux.HandleFunc("PUT /v1/copanies/{copany_id}/app-revenue", s.handleUpsertAppRevenue)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/app-revenue", s.handleListAppRevenue)

	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/distributions/recompute", s.handleRecomputeDistribution)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/distributions", s.handleListDistributions)
	s.mux.HandleFunc("GET /v1/copanies/{copany_id}/distributions/summary", s.handleDistributionSummary)
	s.mux.HandleFunc("POST /v1/copanies/{copany_id}/distributions/{record_id}/confirm", s.handleConfirmDistribution)
}

func (s *Server) handleCreateCopany(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCopanyError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req copanyhttp.CreateCopanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCopanyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.copanies.Handler.CreateCopanyHandler(r.Context(), userID, req)
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCopanies(w http.ResponseWriter, r *http.Request) {
	resp, err := s.copanies.Handler.ListCopaniesHandler(r.Context())
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCopany(w http.ResponseWriter, r *http.Request) {
	resp, err := s.copanies.Handler.GetCopanyHandler(r.Context(), r.PathValue("copany_id"))
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddContributor(w http.ResponseWriter, r *http.Request) {
	var req copanyhttp.AddContributorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCopanyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.copanies.Handler.AddContributorHandler(r.Context(), r.PathValue("copany_id"), req)
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListContributors(w http.ResponseWriter, r *http.Request) {
	resp, err := s.copanies.Handler.ListContributorsHandler(r.Context(), r.PathValue("copany_id"))
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var req copanyhttp.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCopanyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.copanies.Handler.CreateIssueHandler(r.Context(), r.PathValue("copany_id"), req)
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.copanies.Handler.ListIssuesHandler(
		r.Context(),
		r.PathValue("copany_id"),
		query.Get("state"),
		query.Get("assignee"),
	)
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	resp, err := s.copanies.Handler.GetIssueHandler(r.Context(), r.PathValue("copany_id"), r.PathValue("issue_id"))
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	var req copanyhttp.UpdateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCopanyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.copanies.Handler.UpdateIssueHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.PathValue("issue_id"),
		req,
	)
	if err != nil {
		writeCopanyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.RecordTransactionHandler(r.Context(), r.PathValue("copany_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.ledger.Handler.ListTransactionsHandler(
		r.Context(),
		r.PathValue("copany_id"),
		query.Get("month"),
		query.Get("status"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAmendTransaction(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.AmendTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.AmendTransactionHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.PathValue("transaction_id"),
		req,
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ConfirmTransactionHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.PathValue("transaction_id"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertAppRevenue(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.UpsertAppRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.UpsertAppRevenueHandler(r.Context(), r.PathValue("copany_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAppRevenue(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListAppRevenueHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.URL.Query().Get("month"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecomputeDistribution(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeDistributionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.distribution.Handler.RecomputeHandler(r.Context(), userID, r.PathValue("copany_id"))
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.ListRecordsHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.URL.Query().Get("month"),
	)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistributionSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.SummaryHandler(
		r.Context(),
		r.PathValue("copany_id"),
		r.URL.Query().Get("month"),
	)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmDistribution(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeDistributionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	err := s.distribution.Handler.ConfirmRecordHandler(
		r.Context(),
		userID,
		r.PathValue("copany_id"),
		r.PathValue("record_id"),
	)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCopanyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, copanyerrors.ErrCopanyNotFound):
		writeCopanyError(w, http.StatusNotFound, "copany_not_found", err.Error())
	case errors.Is(err, copanyerrors.ErrIssueNotFound):
		writeCopanyError(w, http.StatusNotFound, "issue_not_found", err.Error())
	case errors.Is(err, copanyerrors.ErrContributorNotFound):
		writeCopanyError(w, http.StatusNotFound, "contributor_not_found", err.Error())
	case errors.Is(err, copanyerrors.ErrCopanyExists):
		writeCopanyError(w, http.StatusConflict, "copany_exists", err.Error())
	case errors.Is(err, copanyerrors.ErrContributorExists):
		writeCopanyError(w, http.StatusConflict, "contributor_exists", err.Error())
	case errors.Is(err, copanyerrors.ErrInvalidCopanyInput):
		writeCopanyError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeCopanyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrTransactionNotFound),
		errors.Is(err, ledgererrors.ErrRevenueEntryNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrTransactionImmutable):
		writeLedgerError(w, http.StatusConflict, "transaction_immutable", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidLedgerInput),
		errors.Is(err, ledgererrors.ErrInvalidMonthKey):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDistributionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, distributionerrors.ErrCopanyNotFound),
		errors.Is(err, distributionerrors.ErrRecordNotFound):
		writeDistributionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, distributionerrors.ErrNotCopanyOwner),
		errors.Is(err, distributionerrors.ErrNotRecordRecipient):
		writeDistributionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, distributionerrors.ErrRecordAlreadyConfirmed):
		writeDistributionError(w, http.StatusConflict, "record_already_confirmed", err.Error())
	case errors.Is(err, distributionerrors.ErrRecomputeLocked):
		writeDistributionError(w, http.StatusConflict, "recompute_in_progress", err.Error())
	case errors.Is(err, distributionerrors.ErrInvalidMonthKey),
		errors.Is(err, distributionerrors.ErrInvalidDistributionInput):
		writeDistributionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDistributionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCopanyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, copanyhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeDistributionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, distributionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
