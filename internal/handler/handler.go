package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	service "github.com/honeynil/player-service/internal/services"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
)

type Handler struct {
	service service.PlayerService
}

func NewHandler(s service.PlayerService) *Handler {
	return &Handler{service: s}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"
	switch {
	case errors.Is(err, pkgerrors.ErrBadRequest):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, pkgerrors.ErrPlayerNotFound):
		status, msg = http.StatusNotFound, err.Error()
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", pkgerrors.ErrBadRequest, err)
}

// RegisterRoutes registers the player routes on r. Create, update and delete
// are wrapped with protect when it is non-nil.
func (h *Handler) RegisterRoutes(r *mux.Router, protect func(http.Handler) http.Handler) {
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}
	r.HandleFunc("", h.ListPlayers).Methods(http.MethodGet)
	r.HandleFunc("/count", h.CountPlayers).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.GetPlayer).Methods(http.MethodGet)
	r.Handle("", protect(http.HandlerFunc(h.CreatePlayer))).Methods(http.MethodPost)
	r.Handle("/{id}", protect(http.HandlerFunc(h.UpdatePlayer))).Methods(http.MethodPost)
	r.Handle("/{id}", protect(http.HandlerFunc(h.DeletePlayer))).Methods(http.MethodDelete)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}
	page, err := parsePage(q)
	if err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}

	players, err := h.service.ListPage(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, players)
}

func (h *Handler) CountPlayers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}

	count, err := h.service.Count(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, count)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}

	player, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}

	player, err := h.service.Update(r.Context(), mux.Vars(r)["id"], req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
