package handlers

import (
	"errors"
	"net/http"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/service"
)

type SelfAspectHandler struct {
	svc *service.GenerationService
}

func NewSelfAspectHandler(svc *service.GenerationService) *SelfAspectHandler {
	return &SelfAspectHandler{svc: svc}
}

type generateRequest struct {
	Content string                 `json:"content"`
	Data    *domain.OnboardingData `json:"data"`
	Mock    bool                   `json:"mock"`
}

// Generate returns cards for the submitted questionnaire. Setting content
// switches to journal mode. The cards are not saved; onboarding completion
// stores the ones the user decided on.
func (h *SelfAspectHandler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	in := service.GenerateInput{UserID: uid, Content: req.Content, Mock: req.Mock}
	if req.Data != nil {
		in.Snapshot = req.Data.Snapshot()
	}

	res, err := h.svc.Generate(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrGenerationCancelled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to generate self-aspects")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type analyzeRequest struct {
	Content string `json:"content"`
}

// Analyze generates and saves cards for a journal entry.
func (h *SelfAspectHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req analyzeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	res, err := h.svc.AnalyzeJournal(r.Context(), uid, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOnboardingRequired):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrGenerationCancelled):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to analyze content")
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
