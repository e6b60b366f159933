package stubhttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/httperrors"
)

// unpin снимает пин. Pinata отвечает текстом "OK".
func (a *Server) unpin(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")

	if err := a.pins.Delete(cid); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			httperrors.WriteJSON(w, http.StatusNotFound, stubError{Error: stubReason{
				Reason:  "CURRENT_USER_HAS_NOT_PINNED_CID",
				Details: cid,
			}})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	hlog.FromRequest(r).Info().Str("cid", cid).Msg("stub unpinned")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OK")
}
