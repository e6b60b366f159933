package resthttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/yourname/pin_relay/internal/config"
	"github.com/yourname/pin_relay/internal/usecase/pinsvc"
	"github.com/yourname/pin_relay/pkg/httperrors"
	"github.com/yourname/pin_relay/pkg/pinataclient"
)

const requestIDHeader = "X-Request-Id"

type Server struct {
	PinService pinsvc.Service
	Cfg        *config.Config
	maxUpload  int64
}

// NewServer конструктор: собирает клиент Pinata, сервис пиннинга и роутер.
func NewServer(cfg *config.Config) (http.Handler, *Server, error) {
	return NewServerWithService(cfg, buildPinService(cfg))
}

// NewServerWithService позволяет подставить свою реализацию сервиса (тесты).
func NewServerWithService(cfg *config.Config, pins pinsvc.Service) (http.Handler, *Server, error) {
	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		PinService: pins,
		Cfg:        cfg,
		maxUpload:  maxUpload,
	}

	return srv.routes(), srv, nil
}

func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(hlog.NewHandler(log.Logger))
	rtr.Use(hlog.RequestIDHandler("req_id", requestIDHeader))
	rtr.Use(hlog.AccessHandler(accessLog))
	rtr.Use(middleware.Recoverer)
	rtr.Use(corsMiddleware(s.Cfg.CORSOrigin))

	rtr.Route("/api/ipfs", func(r chi.Router) {
		r.Post("/pin", s.postPin)
		r.Post("/unpin", s.postUnpin)
	})
	rtr.Get("/health", s.health)
	if s.Cfg.DebugEnabled() {
		rtr.Get("/admin/config", func(w http.ResponseWriter, r *http.Request) {
			httperrors.WriteJSON(w, http.StatusOK, s.Cfg)
		})
	}

	return rtr
}

func buildPinService(cfg *config.Config) pinsvc.Service {
	cli := pinataclient.New(cfg.Pinata.URL, pinataclient.Credentials{
		APIKey:    cfg.Pinata.APIKey,
		APISecret: cfg.Pinata.APISecret,
	})

	return pinsvc.New(pinsvc.Deps{
		Client: cli,
		Options: pinsvc.Options{
			Fields:        cfg.Upload.Fields,
			PreservePaths: cfg.PreservePaths(),
			WrapDirectory: cfg.Upload.WrapDirectory,
			CIDVersion:    cfg.CIDVersion(),
			ValidateCID:   cfg.ValidateCID(),
		},
	})
}

// corsMiddleware пускает CORS_ORIGIN, а при пустом значении отражает Origin запроса.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}
	if origin = strings.TrimSpace(origin); origin == "" {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = []string{origin}
	}

	return cors.New(opts).Handler
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request handled")
}

// fail логирует ошибку запроса и отдаёт её клиенту.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := httperrors.Status(err)
	logger := hlog.FromRequest(r)
	ev := logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")

	httperrors.Write(w, err)
}
