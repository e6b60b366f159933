package stubhttp

import (
	"net/http"

	"github.com/yourname/pin_relay/pkg/httperrors"
)

// healthStats: payload ответа /health.
type healthStats struct {
	OK   bool `json:"ok"`
	Pins int  `json:"pins"`
}

func (a *Server) health(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, healthStats{
		OK:   true,
		Pins: len(a.pins.List()),
	})
}

func (a *Server) testAuthentication(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Congratulations! You are communicating with the Pinata API!",
	})
}
