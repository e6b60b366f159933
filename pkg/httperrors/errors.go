package httperrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yourname/pin_relay/internal/models"
)

const internalMessage = "internal server error"

type errorResp struct {
	Error string `json:"error"`
}

// Write пишет JSON-ошибку со статусом, соответствующим типу ошибки.
func Write(w http.ResponseWriter, err error) {
	status, msg := Status(err)
	WriteJSON(w, status, errorResp{Error: msg})
}

// Status возвращает HTTP-статус и текст, который безопасно отдать клиенту.
func Status(err error) (int, string) {
	var (
		upstream *models.UpstreamError
		tooLarge *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, models.ErrNoFiles),
		errors.Is(err, models.ErrMalformedUpload),
		errors.Is(err, models.ErrInvalidCID),
		errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &upstream):
		if upstream.StatusCode < http.StatusBadRequest {
			return http.StatusBadGateway, err.Error()
		}
		return upstream.StatusCode, err.Error()
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// WriteJSON сериализует v с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
