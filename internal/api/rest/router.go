package rest

import (
	"log/slog"
	"net/http"

	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/cache"
	"github.com/jplsports/player-auction-backend/internal/metrics"
)

// RouterDeps carries everything the router wires together
type RouterDeps struct {
	Auction  *AuctionHandler
	Catalog  *CatalogHandler
	Auth     *AuthHandler
	AuthSvc  *auth.Service
	Sessions *cache.SessionStore
	Registry *metrics.Registry
	WSHandle http.Handler
	Logger   *slog.Logger
}

// NewRouter builds the full HTTP surface. Reads are public; lifecycle
// commands require the admin role; bidding is open to admins and teams.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authed := RequireAuth(deps.AuthSvc, deps.Sessions)
	adminOnly := Chain(authed, RequireRole(auth.RoleAdmin))
	bidders := Chain(authed, RequireRole(auth.RoleAdmin, auth.RoleTeam))

	// Health and metrics
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Registry != nil {
		mux.Handle("GET /metrics", deps.Registry.Handler())
	}

	// Live event stream
	if deps.WSHandle != nil {
		mux.Handle("GET /ws", deps.WSHandle)
	}

	// Session endpoints
	mux.HandleFunc("POST /api/v1/auth/login", deps.Auth.Login)
	mux.Handle("POST /api/v1/auth/register", adminOnly(http.HandlerFunc(deps.Auth.Register)))
	mux.Handle("POST /api/v1/auth/logout", authed(http.HandlerFunc(deps.Auth.Logout)))

	// Auction lifecycle
	mux.Handle("POST /api/v1/auction/start", adminOnly(http.HandlerFunc(deps.Auction.Start)))
	mux.Handle("POST /api/v1/auction/bid", bidders(http.HandlerFunc(deps.Auction.PlaceBid)))
	mux.Handle("POST /api/v1/auction/pause", adminOnly(http.HandlerFunc(deps.Auction.Pause)))
	mux.Handle("POST /api/v1/auction/resume", adminOnly(http.HandlerFunc(deps.Auction.Resume)))
	mux.Handle("POST /api/v1/auction/cancel", adminOnly(http.HandlerFunc(deps.Auction.Cancel)))
	mux.Handle("POST /api/v1/auction/end", adminOnly(http.HandlerFunc(deps.Auction.End)))
	mux.HandleFunc("GET /api/v1/auction/state", deps.Auction.State)

	// Catalog
	mux.HandleFunc("GET /api/v1/players", deps.Catalog.ListPlayers)
	mux.HandleFunc("GET /api/v1/players/sold", deps.Catalog.ListSoldPlayers)
	mux.HandleFunc("GET /api/v1/players/{id}", deps.Catalog.GetPlayer)
	mux.Handle("POST /api/v1/players", adminOnly(http.HandlerFunc(deps.Catalog.CreatePlayer)))
	mux.HandleFunc("GET /api/v1/teams", deps.Catalog.ListTeams)
	mux.HandleFunc("GET /api/v1/teams/{id}", deps.Catalog.GetTeam)
	mux.Handle("POST /api/v1/teams", adminOnly(http.HandlerFunc(deps.Catalog.CreateTeam)))
	mux.HandleFunc("GET /api/v1/history", deps.Catalog.ListHistory)

	chain := []Middleware{
		Recovery(deps.Logger),
		RequestID(),
		RequestLogging(deps.Logger),
	}
	if deps.Registry != nil {
		chain = append(chain, Metrics(deps.Registry))
	}

	return Chain(chain...)(mux)
}
