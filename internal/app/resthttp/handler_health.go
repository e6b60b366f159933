package resthttp

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/yourname/pin_relay/pkg/httperrors"
)

type healthResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// health проверяет, что ключи Pinata рабочие и сервис отвечает.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.PinService.Health(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("pinning service health check failed")
		httperrors.WriteJSON(w, http.StatusServiceUnavailable, healthResp{OK: false, Error: err.Error()})
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, healthResp{OK: true})
}
