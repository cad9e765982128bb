package handlers

import (
	"errors"
	"net/http"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/service"
)

type OnboardingHandler struct {
	svc *service.OnboardingService
}

func NewOnboardingHandler(svc *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrOnboardingNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get onboarding data")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req service.CompleteInput
	if !decodeJSON(w, r, &req, false) {
		return
	}

	res, err := h.svc.Complete(r.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCardsProcessed),
			errors.Is(err, service.ErrTooManyContexts),
			errors.Is(err, service.ErrInvalidContextType),
			errors.Is(err, service.ErrInvalidOnboardingCard):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCardsAlreadySaved):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to complete onboarding")
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
