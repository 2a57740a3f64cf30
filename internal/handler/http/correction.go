package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timecardhq/timecard-backend-go/internal/domain/auth"
	"github.com/timecardhq/timecard-backend-go/internal/domain/correction"
	"github.com/timecardhq/timecard-backend-go/internal/handler/http/middleware"
	"github.com/timecardhq/timecard-backend-go/internal/handler/http/response"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	ListMyPending(w http.ResponseWriter, r *http.Request)
	ListMyApproved(w http.ResponseWriter, r *http.Request)
	ListAllPending(w http.ResponseWriter, r *http.Request)
	ListAllApproved(w http.ResponseWriter, r *http.Request)
	GetDetail(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
	gate              auth.AccessGate
}

func NewCorrectionHandler(correctionService correction.CorrectionService, gate auth.AccessGate) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
		gate:              gate,
	}
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := h.gate.RequireAuthenticated(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req correction.SubmitCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID

	result, err := h.correctionService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", result)
}

// Approve implements CorrectionHandler. Admin only, enforced by the router.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.gate.RequireAdmin(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.Approve(r.Context(), chi.URLParam(r, "id"), adminID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request approved", result)
}

// ListMyPending implements CorrectionHandler.
func (h *correctionHandlerImpl) ListMyPending(w http.ResponseWriter, r *http.Request) {
	userID, err := h.gate.RequireAuthenticated(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.correctionService.ListPendingForUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListMyApproved implements CorrectionHandler.
func (h *correctionHandlerImpl) ListMyApproved(w http.ResponseWriter, r *http.Request) {
	userID, err := h.gate.RequireAuthenticated(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.correctionService.ListApprovedForUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListAllPending implements CorrectionHandler. Admin only.
func (h *correctionHandlerImpl) ListAllPending(w http.ResponseWriter, r *http.Request) {
	results, err := h.correctionService.ListAllPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListAllApproved implements CorrectionHandler. Admin only.
func (h *correctionHandlerImpl) ListAllApproved(w http.ResponseWriter, r *http.Request) {
	results, err := h.correctionService.ListAllApproved(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetDetail implements CorrectionHandler.
func (h *correctionHandlerImpl) GetDetail(w http.ResponseWriter, r *http.Request) {
	actorID, err := h.gate.RequireAuthenticated(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.gate.RequireOwnerOrAdmin(r.Context(), actorID, result.Request.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
