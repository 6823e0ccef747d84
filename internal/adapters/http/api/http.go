// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/http/swagger"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/adapters/tts"
	service "github.com/okian/rendezvous/internal/app"
	"github.com/okian/rendezvous/internal/domain/poster"
	"github.com/okian/rendezvous/internal/domain/scoring"
	"github.com/okian/rendezvous/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service implements it.
type Dependencies interface {
	HealthDependencies
	StatsProvider
	ScheduleDependencies
	ResultsDependencies
	LeaderboardDependencies
	PosterDependencies
	GalleryDependencies
	AnnouncementDependencies
	AuthDependencies
	IdempotencyDependencies
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the festival API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	scheduleHandler      *ScheduleHandler
	resultsHandler       *ResultsHandler
	leaderboardHandler   *LeaderboardHandler
	posterHandler        *PosterHandler
	galleryHandler       *GalleryHandler
	announcementsHandler *AnnouncementsHandler
	authHandler          *AuthHandler

	deps        Dependencies
	maxLimit    int
	loginRate   float64
	loginBurst  int
	maxUpload   int64
	corsOrigins []string
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:        deps,
		maxLimit:    100,
		loginRate:   1,
		loginBurst:  5,
		maxUpload:   10 << 20,
		corsOrigins: []string{"*"},
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	creator := newIdempotentCreator(deps)
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.scheduleHandler = NewScheduleHandler(deps, creator)
	s.resultsHandler = NewResultsHandler(deps, creator, s.maxUpload)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.posterHandler = NewPosterHandler(deps)
	s.galleryHandler = NewGalleryHandler(deps, creator, s.maxUpload)
	s.announcementsHandler = NewAnnouncementsHandler(deps, creator)
	s.authHandler = NewAuthHandler(deps, newLoginLimiter(s.loginRate, s.loginBurst))
	return s
}

// Register attaches all routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	swagger.Register(r)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	route := func(path, endpoint string, h http.HandlerFunc, method string) {
		v1.HandleFunc(path, MetricsMiddleware(h, endpoint)).Methods(method)
	}

	route("/schedule", "schedule", s.scheduleHandler.HandleList, http.MethodGet)
	route("/results", "results", s.resultsHandler.HandleGrouped, http.MethodGet)
	route("/results/{id}/poster", "poster", s.posterHandler.HandlePoster, http.MethodGet)
	route("/results/{id}/photos/{key}", "result_photo", s.resultsHandler.HandlePhoto, http.MethodGet)
	route("/poster-templates", "poster_templates", s.posterHandler.HandleTemplates, http.MethodGet)
	route("/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard, http.MethodGet)
	route("/leaderboard/{participant}", "participant", s.leaderboardHandler.HandleGetParticipant, http.MethodGet)
	route("/gallery", "gallery", s.galleryHandler.HandleList, http.MethodGet)
	route("/gallery/{id}/image", "gallery_image", s.galleryHandler.HandleImage, http.MethodGet)
	route("/gallery/{id}/like", "gallery_like", s.galleryHandler.HandleLike, http.MethodPost)
	route("/announcements", "announcements", s.announcementsHandler.HandleList, http.MethodGet)
	route("/announcements/{id}/audio", "announcement_audio", s.announcementsHandler.HandleAudio, http.MethodGet)
	route("/auth/login", "login", s.authHandler.HandleLogin, http.MethodPost)

	admin := v1.PathPrefix("/admin").Subrouter()
	admin.Use(AuthMiddleware(s.deps))
	adminRoute := func(path, endpoint string, h http.HandlerFunc, method string) {
		admin.HandleFunc(path, MetricsMiddleware(h, "admin_"+endpoint)).Methods(method)
	}

	adminRoute("/stats", "stats", s.statsHandler.HandleStats, http.MethodGet)

	adminRoute("/events", "events", s.scheduleHandler.HandleCreate, http.MethodPost)
	adminRoute("/events/{id}", "event", s.scheduleHandler.HandleUpdate, http.MethodPut)
	adminRoute("/events/{id}", "event", s.scheduleHandler.HandleDelete, http.MethodDelete)
	adminRoute("/events/{id}/posters", "event_posters", s.posterHandler.HandleQueueEvent, http.MethodPost)

	adminRoute("/results", "results", s.resultsHandler.HandleList, http.MethodGet)
	adminRoute("/results", "results", s.resultsHandler.HandleCreate, http.MethodPost)
	adminRoute("/results/{id}", "result", s.resultsHandler.HandleUpdate, http.MethodPut)
	adminRoute("/results/{id}", "result", s.resultsHandler.HandleDelete, http.MethodDelete)
	adminRoute("/results/{id}/photos", "result_photos", s.resultsHandler.HandleAddPhoto, http.MethodPost)

	adminRoute("/gallery", "gallery", s.galleryHandler.HandleCreate, http.MethodPost)
	adminRoute("/gallery/{id}", "gallery_item", s.galleryHandler.HandleUpdate, http.MethodPut)
	adminRoute("/gallery/{id}", "gallery_item", s.galleryHandler.HandleDelete, http.MethodDelete)

	adminRoute("/announcements", "announcements", s.announcementsHandler.HandleListAll, http.MethodGet)
	adminRoute("/announcements", "announcements", s.announcementsHandler.HandleCreate, http.MethodPost)
	adminRoute("/announcements/{id}", "announcement", s.announcementsHandler.HandleUpdate, http.MethodPut)
	adminRoute("/announcements/{id}", "announcement", s.announcementsHandler.HandleDelete, http.MethodDelete)
	adminRoute("/announcements/{id}/toggle", "announcement_toggle", s.announcementsHandler.HandleToggle, http.MethodPost)
	adminRoute("/announcements/{id}/audio", "announcement_synthesize", s.announcementsHandler.HandleSynthesize, http.MethodPost)

	r.NotFoundHandler = MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	}, "not_found")
	r.MethodNotAllowedHandler = MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}, "method_not_allowed")
}

// Handler returns the router with CORS and panic recovery applied.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := mux.NewRouter()
	s.Register(ctx, r)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", idempotencyHeader}),
		handlers.ExposedHeaders([]string{"Content-Length", "Content-Disposition"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{ctx: ctx, l: s.logger}),
	)
	return recovery(cors(r))
}

type recoveryLogger struct {
	ctx context.Context //nolint:containedctx // handlers.RecoveryLogger has no context parameter
	l   logger.Logger
}

func (r recoveryLogger) Println(v ...any) {
	r.l.Error(r.ctx, "panic while serving request", logger.Any("panic", v))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps err onto a status code and writes it.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable && status != http.StatusBadGateway {
		writeError(w, status, code, errors.New(http.StatusText(status)))
		return
	}
	writeError(w, status, code, err)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, blobstore.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrRequestPending):
		return http.StatusConflict, "request_pending"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidRecord),
		errors.Is(err, scoring.ErrInvalidPosition),
		errors.Is(err, poster.ErrUnknownTemplate),
		errors.Is(err, tts.ErrEmptyText),
		errors.Is(err, tts.ErrUnknownVoice):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotConfigured), errors.Is(err, tts.ErrDisabled):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, tts.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
