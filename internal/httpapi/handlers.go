package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilmenon/auctiond/internal/store"
)

const defaultBidLimit = 200

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if s.admin.Password == "" || s.admin.Token == "" {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) != 1 {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{Token: s.admin.Token})
}

func (s *Server) handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.admin.Token)) != 1 {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (s *Server) handleOpenLot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeBadRequest(w)
		return
	}

	session, err := s.coord.OpenLot(r.Context(), req.PlayerID, r.Header.Get(adminTokenHeader))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleRecordBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID string `json:"teamId"`
		Amount int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TeamID == "" || req.Amount <= 0 {
		writeBadRequest(w)
		return
	}

	if err := s.coord.RecordBid(r.Context(), req.TeamID, req.Amount, r.Header.Get(adminTokenHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.CurrentLot())
}

func (s *Server) handleFinalizeSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
		TeamID   string `json:"teamId"`
		Price    int    `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" || req.TeamID == "" || req.Price <= 0 {
		writeBadRequest(w)
		return
	}

	if err := s.coord.FinalizeSale(r.Context(), req.PlayerID, req.TeamID, req.Price, r.Header.Get(adminTokenHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Sold bool `json:"sold"`
	}{Sold: true})
}

func (s *Server) handleMarkUnsold(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.MarkUnsold(r.Context(), r.Header.Get(adminTokenHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Unsold bool `json:"unsold"`
	}{Unsold: true})
}

// handleCurrentLot lets late-joining viewers catch up before the next event.
func (s *Server) handleCurrentLot(w http.ResponseWriter, r *http.Request) {
	session := s.coord.CurrentLot()
	if session == nil {
		writeJSON(w, http.StatusOK, struct {
			Lot any `json:"lot"`
		}{Lot: nil})
		return
	}

	player, err := s.repos.Players.GetByID(r.Context(), session.PlayerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Lot    any           `json:"lot"`
		Player *store.Player `json:"player"`
	}{Lot: session, Player: player})
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.repos.Teams.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	type teamWithRoster struct {
		store.Team
		Players []store.Player `json:"players"`
	}
	out := make([]teamWithRoster, 0, len(teams))
	for _, team := range teams {
		roster, err := s.repos.Players.ListByTeam(r.Context(), team.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if roster == nil {
			roster = []store.Player{}
		}
		out = append(out, teamWithRoster{Team: team, Players: roster})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	team, err := s.repos.Teams.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	roster, err := s.repos.Players.ListByTeam(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if roster == nil {
		roster = []store.Player{}
	}
	writeJSON(w, http.StatusOK, struct {
		*store.Team
		Players []store.Player `json:"players"`
	}{Team: team, Players: roster})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	var (
		players []store.Player
		err     error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		players, err = s.repos.Players.ListByStatus(r.Context(), status)
	} else {
		players, err = s.repos.Players.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if players == nil {
		players = []store.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleListBids(w http.ResponseWriter, r *http.Request) {
	limit := defaultBidLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeBadRequest(w)
			return
		}
		limit = n
	}

	var (
		bids []store.Bid
		err  error
	)
	if teamID := r.URL.Query().Get("teamId"); teamID != "" {
		bids, err = s.repos.Bids.ListByTeam(r.Context(), teamID)
	} else {
		bids, err = s.repos.Bids.ListRecent(r.Context(), limit)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bids == nil {
		bids = []store.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}
