package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/yyybbbyyyb/aiverse-backend/internal/config"
	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
	"github.com/yyybbbyyyb/aiverse-backend/internal/search"
	"github.com/yyybbbyyyb/aiverse-backend/internal/sms"
	"github.com/yyybbbyyyb/aiverse-backend/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	store    *store.Store
	repo     *repository.Repository
	index    search.Index
	sms      sms.Client
	validate *validator.Validate
	logger   *log.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, index search.Index, smsClient sms.Client, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their JSON names so validation details line
	// up with the request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Server{
		cfg:      cfg,
		store:    st,
		repo:     repo,
		index:    index,
		sms:      smsClient,
		validate: validate,
		logger:   logger,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/entities", func(r chi.Router) {
		r.Get("/", s.handleListEntities)
		r.Post("/", s.handleCreateEntity)
		r.Get("/statistics", s.handleEntityStatistics)
		r.Get("/recommend", s.handleRecommend)
		r.Get("/recommend-similar", s.handleRecommendSimilar)
		r.Get("/search", s.handleSearch)
		r.Route("/{entityID}", func(r chi.Router) {
			r.Get("/", s.handleGetEntity)
			r.Put("/", s.handleUpdateEntity)
			r.Delete("/", s.handleDeleteEntity)
			r.Post("/like", s.handleLikeEntity)
			r.Delete("/like", s.handleUnlikeEntity)
		})
	})

	s.router.Route("/ratings", func(r chi.Router) {
		r.Get("/", s.handleListRatings)
		r.Post("/", s.handleCreateRating)
		r.Route("/{ratingID}", func(r chi.Router) {
			r.Put("/", s.handleUpdateRating)
			r.Delete("/", s.handleDeleteRating)
		})
	})

	s.router.Route("/types", func(r chi.Router) {
		r.Get("/", s.handleListTypes)
		r.Post("/", s.handleCreateType)
		r.Delete("/{typeID}", s.handleDeleteType)
	})

	s.router.Route("/tags", func(r chi.Router) {
		r.Get("/", s.handleListTags)
		r.Post("/", s.handleCreateTag)
	})

	s.router.Route("/notices", func(r chi.Router) {
		r.Get("/", s.handleListNotices)
		r.Post("/", s.handleCreateNotice)
		r.Route("/{noticeID}", func(r chi.Router) {
			r.Put("/", s.handleUpdateNotice)
			r.Delete("/", s.handleDeleteNotice)
		})
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/phone-code", s.handleRequestPhoneCode)
		r.Post("/phone-code/verify", s.handleVerifyPhoneCode)
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
