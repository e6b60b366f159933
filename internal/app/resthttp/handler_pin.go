package resthttp

import (
	"fmt"
	"net/http"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/httperrors"
)

// pinResp: тело ответа с CID закреплённой загрузки.
type pinResp struct {
	CID string `json:"cid"`
}

// postPin принимает multipart-форму и полностью делегирует пиннинг сервису.
func (s *Server) postPin(w http.ResponseWriter, r *http.Request) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", models.ErrMalformedUpload, err))
		return
	}

	res, err := s.PinService.Pin(r.Context(), mr)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, pinResp{CID: res.CID})
}
