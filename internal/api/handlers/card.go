package handlers

import (
	"errors"
	"net/http"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/service"
)

type CardHandler struct {
	svc *service.CardService
}

func NewCardHandler(svc *service.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	cards, err := h.svc.List(r.Context(), uid, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCardStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *CardHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	card, err := h.svc.UpdateStatus(r.Context(), uid, cardID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCardStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCardNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update card")
		}
		return
	}

	writeJSON(w, http.StatusOK, card)
}
