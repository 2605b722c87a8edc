// Package httpapi exposes the admin command surface and the read endpoints
// viewer clients use to catch up before attaching to the event stream.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/nikhilmenon/auctiond/internal/auction"
	"github.com/nikhilmenon/auctiond/internal/config"
	"github.com/nikhilmenon/auctiond/internal/health"
	"github.com/nikhilmenon/auctiond/internal/hub"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// adminTokenHeader carries the shared admin credential on command requests.
const adminTokenHeader = "X-Admin-Token"

// Server bundles the handlers behind one router.
type Server struct {
	coord  *auction.Coordinator
	repos  *store.Repositories
	hub    *hub.Hub
	health *health.Handler
	admin  config.AdminConfig
	logger *slog.Logger
}

// NewServer wires the handlers together.
func NewServer(coord *auction.Coordinator, repos *store.Repositories, h *hub.Hub, hh *health.Handler, admin config.AdminConfig, logger *slog.Logger) *Server {
	return &Server{
		coord:  coord,
		repos:  repos,
		hub:    h,
		health: hh,
		admin:  admin,
		logger: logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", adminTokenHeader},
	}).Handler)

	r.Get("/healthz", s.health.Liveness())
	r.Get("/readyz", s.health.Readiness())
	r.Get("/ws", s.hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", s.handleAdminLogin)
		r.Get("/admin/check", s.handleAdminCheck)

		r.Post("/auction/open", s.handleOpenLot)
		r.Post("/auction/bid", s.handleRecordBid)
		r.Post("/auction/sold", s.handleFinalizeSale)
		r.Post("/auction/unsold", s.handleMarkUnsold)
		r.Get("/auction/current", s.handleCurrentLot)

		r.Get("/teams", s.handleListTeams)
		r.Get("/teams/{id}", s.handleGetTeam)
		r.Get("/players", s.handleListPlayers)
		r.Get("/bids", s.handleListBids)
	})

	return r
}
