package stubhttp

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/yourname/pin_relay/internal/repo"
	"github.com/yourname/pin_relay/pkg/httperrors"
	"github.com/yourname/pin_relay/pkg/pinataclient"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

// Server serves a Pinata-compatible subset of the pinning API from memory.
type Server struct {
	creds pinataclient.Credentials
	pins  *repo.MemoryStore
}

// New создаёт HTTP-обработчик стаба поверх хранилища пинов.
func New(creds pinataclient.Credentials, pins *repo.MemoryStore) http.Handler {
	srv := &Server{
		creds: creds,
		pins:  pins,
	}

	return srv.routes()
}

// routes регистрирует обработчики пиннинга, проверки ключей и здоровья.
func (a *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))

	r.Get("/health", a.health)
	r.Group(func(pr chi.Router) {
		pr.Use(a.requireKeys)
		pr.Post(pinataproto.PinFilePath, a.pinFile)
		pr.Delete("/pinning/unpin/{cid}", a.unpin)
		pr.Get(pinataproto.TestAuthPath, a.testAuthentication)
	})

	return r
}

// requireKeys сверяет ключи из заголовков с настроенными.
func (a *Server) requireKeys(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(pinataproto.HeaderAPIKey)
		secret := r.Header.Get(pinataproto.HeaderAPISecret)
		if key == "" || secret == "" || !equal(key, a.creds.APIKey) || !equal(secret, a.creds.APISecret) {
			httperrors.WriteJSON(w, http.StatusUnauthorized, stubError{Error: stubReason{
				Reason:  "INVALID_API_KEYS",
				Details: "Invalid API key provided",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type stubReason struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// stubError повторяет формат ошибок Pinata.
type stubError struct {
	Error stubReason `json:"error"`
}
