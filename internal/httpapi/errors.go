package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilmenon/auctiond/internal/auction"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// errorBody is the wire shape of every error response. The codes are part of
// the client contract and must not change.
type errorBody struct {
	Error string `json:"error"`
}

type errorMapping struct {
	sentinel error
	status   int
	code     string
}

var errorMappings = []errorMapping{
	{auction.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{auction.ErrNoActiveLot, http.StatusConflict, "no_active_player"},
	{auction.ErrLotAlreadyOpen, http.StatusConflict, "lot_already_open"},
	{auction.ErrPlayerNotFound, http.StatusNotFound, "player_not_found"},
	{auction.ErrPlayerAlreadySold, http.StatusConflict, "already_sold"},
	{auction.ErrTeamNotFound, http.StatusNotFound, "team_not_found"},
	{auction.ErrTeamRosterFull, http.StatusConflict, "team_full"},
	{auction.ErrInsufficientWallet, http.StatusConflict, "insufficient_wallet"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			writeJSON(w, m.status, errorBody{Error: m.code})
			return
		}
	}
	s.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
}

func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
