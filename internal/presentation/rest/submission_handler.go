package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clearline/submission-engine/internal/application"
	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// SubmissionUseCases groups the lifecycle entry points behind the HTTP
// surface. Each handler is a use case already wrapped with the composition
// root's middleware chain.
type SubmissionUseCases struct {
	Create             application.Handler[dto.CreateSubmissionRequest, dto.SubmissionResponse]
	Evaluate           application.Handler[dto.EvaluateSubmissionRequest, dto.EvaluationResponse]
	Route              application.Handler[dto.RouteSubmissionRequest, dto.RoutingDecisionResponse]
	Assign             application.Handler[dto.AssignUnderwriterRequest, dto.SubmissionResponse]
	OverrideClearance  application.Handler[dto.OverrideClearanceRequest, dto.SubmissionResponse]
	RequestInformation application.Handler[dto.RequestInformationRequest, dto.SubmissionResponse]
	Quote              application.Handler[dto.QuoteSubmissionRequest, dto.SubmissionResponse]
	Decline            application.Handler[dto.DeclineSubmissionRequest, dto.SubmissionResponse]
	Bind               application.Handler[dto.BindSubmissionRequest, dto.BindSubmissionResponse]
	Withdraw           application.Handler[dto.CloseSubmissionRequest, dto.SubmissionResponse]
	Expire             application.Handler[dto.CloseSubmissionRequest, dto.SubmissionResponse]
	Get                application.Handler[dto.GetSubmissionRequest, dto.SubmissionResponse]
}

// SubmissionHandler exposes the submission lifecycle over HTTP/JSON. The
// tenant is carried in the X-Tenant-ID header on every request.
type SubmissionHandler struct {
	uc     SubmissionUseCases
	logger *slog.Logger
}

// NewSubmissionHandler creates the HTTP handler for submissions.
func NewSubmissionHandler(uc SubmissionUseCases, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{uc: uc, logger: logger}
}

// RegisterRoutes attaches submission routes to the given mux.
func (h *SubmissionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/submissions", h.create)
	mux.HandleFunc("GET /v1/submissions/{id}", h.get)
	mux.HandleFunc("POST /v1/submissions/{id}/evaluate", h.evaluate)
	mux.HandleFunc("POST /v1/submissions/{id}/route", h.route)
	mux.HandleFunc("POST /v1/submissions/{id}/assign", h.assign)
	mux.HandleFunc("POST /v1/submissions/{id}/clearance/override", h.overrideClearance)
	mux.HandleFunc("POST /v1/submissions/{id}/request-information", h.requestInformation)
	mux.HandleFunc("POST /v1/submissions/{id}/quote", h.quote)
	mux.HandleFunc("POST /v1/submissions/{id}/decline", h.decline)
	mux.HandleFunc("POST /v1/submissions/{id}/bind", h.bind)
	mux.HandleFunc("POST /v1/submissions/{id}/withdraw", h.withdraw)
	mux.HandleFunc("POST /v1/submissions/{id}/expire", h.expire)
}

func (h *SubmissionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	resp, err := h.uc.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Get(r.Context(), dto.GetSubmissionRequest{
		TenantID:     r.Header.Get("X-Tenant-ID"),
		SubmissionID: r.PathValue("id"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Evaluate(r.Context(), dto.EvaluateSubmissionRequest{
		TenantID:     r.Header.Get("X-Tenant-ID"),
		SubmissionID: r.PathValue("id"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) route(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Route(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignUnderwriterRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Assign(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) overrideClearance(w http.ResponseWriter, r *http.Request) {
	var req dto.OverrideClearanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.OverrideClearance(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) requestInformation(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestInformationRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.RequestInformation(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) decline(w http.ResponseWriter, r *http.Request) {
	var req dto.DeclineSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Decline(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) bind(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Bind(r.Context(), dto.BindSubmissionRequest{
		TenantID:     r.Header.Get("X-Tenant-ID"),
		SubmissionID: r.PathValue("id"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Withdraw(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) expire(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = r.Header.Get("X-Tenant-ID")
	req.SubmissionID = r.PathValue("id")
	resp, err := h.uc.Expire(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *SubmissionHandler) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, valueobject.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, valueobject.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, valueobject.ErrInvalidStatusTransition),
		errors.Is(err, valueobject.ErrConflict):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
