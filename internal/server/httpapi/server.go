// Package httpapi exposes the inventory core over a JSON HTTP API. It owns
// routing, auth token resolution, request decoding, and the mapping of the
// core's typed errors to HTTP statuses; all business rules live in the
// services layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/skvault/sleevekeeper/internal/logging"
	"github.com/skvault/sleevekeeper/internal/server/config"
	"github.com/skvault/sleevekeeper/internal/server/images"
	"github.com/skvault/sleevekeeper/internal/server/services"
)

// Server wires the services and image store into an http.Server.
type Server struct {
	addr      string
	jwtSecret []byte
	logger    logging.Logger

	userService  *services.UserService
	stockService *services.StockService
	deckService  *services.DeckService
	imageStore   images.Store

	httpServer *http.Server
}

// NewServer constructs the API server. imageStore may be a LocalStore or an
// S3Store depending on configuration.
func NewServer(cfg *config.Config, logger logging.Logger,
	userService *services.UserService, stockService *services.StockService,
	deckService *services.DeckService, imageStore images.Store) *Server {

	s := &Server{
		addr:         cfg.EndpointAddrHTTP,
		jwtSecret:    []byte(cfg.SecretKey),
		logger:       logger,
		userService:  userService,
		stockService: stockService,
		deckService:  deckService,
		imageStore:   imageStore,
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("DELETE /api/account", s.withAuth(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/sleeves", s.withAuth(s.handleListSleeves))
	mux.HandleFunc("POST /api/sleeves", s.withAuth(s.handleCreateSleeve))
	mux.HandleFunc("GET /api/sleeves/{id}", s.withAuth(s.handleGetSleeve))
	mux.HandleFunc("PUT /api/sleeves/{id}", s.withAuth(s.handleEditSleeve))
	mux.HandleFunc("DELETE /api/sleeves/{id}", s.withAuth(s.handleDeleteSleeve))
	mux.HandleFunc("POST /api/sleeves/{id}/packs", s.withAuth(s.handleAddPack))

	mux.HandleFunc("GET /api/decks", s.withAuth(s.handleListDecks))
	mux.HandleFunc("POST /api/decks", s.withAuth(s.handleComposeDeck))
	mux.HandleFunc("DELETE /api/decks/{id}", s.withAuth(s.handleDeleteDeck))

	// Locally stored images are served directly; S3-backed images are
	// reached through presigned URLs instead.
	if local, ok := s.imageStore.(*images.LocalStore); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(local.Dir()))))
	}

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
