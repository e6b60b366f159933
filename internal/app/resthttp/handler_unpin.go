package resthttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/httperrors"
)

const maxUnpinBody = 64 << 10

type unpinReq struct {
	CID string `json:"cid"`
}

func (s *Server) postUnpin(w http.ResponseWriter, r *http.Request) {
	var payload unpinReq
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUnpinBody)).Decode(&payload); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}

	if err := s.PinService.Unpin(r.Context(), payload.CID); err != nil {
		s.fail(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, struct{}{})
}
